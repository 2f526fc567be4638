package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/earnbox/earnbox/internal/domain"
	"github.com/earnbox/earnbox/internal/infra/observability"
)

// ─── Live Earnings Feed ─────────────────────────────────────────────────────
// Every appended transaction is pushed to connected browsers so the balance
// and history update without polling.

// EarningsHub fans transactions out to SSE clients.
type EarningsHub struct {
	mu      sync.RWMutex
	clients map[chan []byte]struct{}
}

// NewEarningsHub creates a new earnings broadcast hub.
func NewEarningsHub() *EarningsHub {
	return &EarningsHub{
		clients: make(map[chan []byte]struct{}),
	}
}

// EarningsEvent is one appended transaction as sent on the feed.
type EarningsEvent struct {
	Type        string             `json:"type"` // "credit_earned" or "withdrawal"
	Transaction domain.Transaction `json:"transaction"`
}

// Publish broadcasts tx. It has the signature of a ledger append listener.
func (h *EarningsHub) Publish(tx domain.Transaction) {
	typ := "credit_earned"
	if !tx.IsCredit() {
		typ = "withdrawal"
	}
	h.Broadcast(EarningsEvent{Type: typ, Transaction: tx})
}

// Broadcast sends an earnings event to all connected clients.
func (h *EarningsHub) Broadcast(event EarningsEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			// Client too slow, drop message
		}
	}
}

// Subscribe registers a new client. Returns the channel and an unsubscribe func.
func (h *EarningsHub) Subscribe() (chan []byte, func()) {
	ch := make(chan []byte, 32)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	observability.LiveFeedClients.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, ch)
			h.mu.Unlock()
			close(ch)
			observability.LiveFeedClients.Dec()
		})
	}
}

// ClientCount returns the number of connected clients.
func (h *EarningsHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleEarningsSSE serves the live earnings feed via Server-Sent Events.
// GET /api/earnings/live
func (h *EarningsHub) HandleEarningsSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ch, unsub := h.Subscribe()
	defer unsub()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-ch:
			w.Write([]byte("data: "))
			w.Write(data)
			w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}
