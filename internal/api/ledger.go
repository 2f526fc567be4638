package api

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/earnbox/earnbox/internal/app/manual"
	"github.com/earnbox/earnbox/internal/app/summary"
	"github.com/earnbox/earnbox/internal/domain"
)

// ─── Ledger API ─────────────────────────────────────────────────────────────
//
// GET  /api/transactions    — ledger, newest first
// GET  /api/summary         — dashboard cards
// GET  /api/chart/monthly   — [{label, total}] for the chart
// POST /api/earnings        — manual earning entry

type transactionResponse struct {
	domain.Transaction
	Kind string `json:"kind"`
}

func toTransactionResponse(tx domain.Transaction) transactionResponse {
	return transactionResponse{Transaction: tx, Kind: tx.Kind()}
}

// handleTransactions returns the full ledger.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	entries := s.ledger.Entries()
	out := make([]transactionResponse, 0, len(entries))
	for _, tx := range entries {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": out,
		"count":        len(out),
		"balance":      domain.Sum(entries),
	})
}

// handleSummary returns the dashboard cards.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, summary.BuildDashboard(s.ledger.Entries()))
}

type chartPoint struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// handleMonthlyChart returns the monthly series, optionally ?limit=N months.
func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	limit := summary.MaxMonths
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	buckets := summary.Monthly(s.ledger.Entries(), limit)
	out := make([]chartPoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, chartPoint{Label: b.Label, Total: b.Total})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAddEarning posts a manual earning.
func (s *Server) handleAddEarning(w http.ResponseWriter, r *http.Request) {
	var req manual.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := s.manual.Submit(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}
