// Package api provides the HTTP server for earnbox.
// It serves the ledger, reward surfaces and withdrawal form as JSON to the
// browser front-end, plus a live feed of new transactions over SSE.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/earnbox/earnbox/internal/app/ledger"
	"github.com/earnbox/earnbox/internal/app/manual"
	"github.com/earnbox/earnbox/internal/app/reward"
	"github.com/earnbox/earnbox/internal/app/withdraw"
	"github.com/earnbox/earnbox/internal/domain"
)

// Version is reported by /api/status.
const Version = "0.1.0"

// Server is the earnbox HTTP API server.
type Server struct {
	ledger         *ledger.Store
	surfaces       *reward.Registry
	withdraw       *withdraw.Flow
	manual         *manual.Form
	earningsHub    *EarningsHub
	metricsEnabled bool
	corsOrigins    []string
	requestTimeout time.Duration
}

// NewServer creates a new API server over the ledger and reward surfaces.
func NewServer(store *ledger.Store, surfaces *reward.Registry) *Server {
	return &Server{
		ledger:         store,
		surfaces:       surfaces,
		corsOrigins:    []string{"*"},
		requestTimeout: 30 * time.Second,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetWithdraw sets the withdrawal flow.
func (s *Server) SetWithdraw(f *withdraw.Flow) { s.withdraw = f }

// SetManual sets the manual earning form.
func (s *Server) SetManual(f *manual.Form) { s.manual = f }

// SetEarningsHub sets the live earnings SSE hub.
func (s *Server) SetEarningsHub(h *EarningsHub) { s.earningsHub = h }

// SetCORSOrigins sets the origins allowed to call the API from a browser.
func (s *Server) SetCORSOrigins(origins []string) {
	if len(origins) > 0 {
		s.corsOrigins = origins
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Live earnings SSE feed, outside the request timeout
	if s.earningsHub != nil {
		r.Get("/api/earnings/live", s.earningsHub.HandleEarningsSSE)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.requestTimeout))

		r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"status":  "earnbox is running",
				"version": Version,
			})
		})
		r.Get("/api/header", s.handleHeader)

		// Ledger views
		r.Get("/api/transactions", s.handleTransactions)
		r.Get("/api/summary", s.handleSummary)
		r.Get("/api/chart/monthly", s.handleMonthlyChart)

		// Reward surfaces
		r.Route("/api/surfaces", func(r chi.Router) {
			r.Get("/", s.handleListSurfaces)
			r.Get("/{name}", s.handleGetSurface)
			r.Post("/{name}/slots/{index}/click", s.handleSlotAction(actionClick))
			r.Post("/{name}/slots/{index}/start", s.handleSlotAction(actionStart))
			r.Post("/{name}/slots/{index}/confirm", s.handleSlotAction(actionConfirm))
		})

		if s.withdraw != nil {
			r.Post("/api/withdrawals", s.handleWithdraw)
			r.Get("/api/withdrawals/status", s.handleWithdrawStatus)
		}
		if s.manual != nil {
			r.Post("/api/earnings", s.handleAddEarning)
		}
	})

	return r
}

// ─── View Header ────────────────────────────────────────────────────────────

var viewTitles = map[string]string{
	"tasks":        "Tasks Dashboard",
	"transactions": "Transaction History",
	"withdraw":     "Withdraw Funds",
}

// handleHeader returns the balance and title shown above every view.
// GET /api/header?view=tasks|transactions|withdraw
func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view == "" {
		view = "tasks"
	}
	title, ok := viewTitles[view]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown view "+view)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance":    s.ledger.Balance(),
		"view":       view,
		"view_title": title,
	})
}

// ─── Response Helpers ───────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeErrorType(w, status, msg, "error")
}

func writeErrorType(w http.ResponseWriter, status int, msg, typ string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    typ,
		},
	})
}

// writeDomainError maps service errors to status codes. Validation errors
// carry their user-facing message and code.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeErrorType(w, http.StatusUnprocessableEntity, ve.Message, ve.Code)
	case errors.Is(err, domain.ErrUnknownSurface), errors.Is(err, domain.ErrSlotOutOfRange):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSurfaceClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON reads a bounded JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
