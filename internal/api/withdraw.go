package api

import (
	"net/http"

	"github.com/earnbox/earnbox/internal/app/withdraw"
)

// ─── Withdrawal API ─────────────────────────────────────────────────────────
//
// POST /api/withdrawals         — submit the withdrawal form
// GET  /api/withdrawals/status  — {enabled, message}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdraw.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := s.withdraw.Submit(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"transaction": toTransactionResponse(tx),
		"message":     s.withdraw.Message(),
	})
}

func (s *Server) handleWithdrawStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.withdraw.Status())
}
