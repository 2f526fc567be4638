// Package withdraw implements the withdrawal form: it validates a payout
// request against the balance at submit time and posts the matching debit.
package withdraw

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/earnbox/earnbox/internal/domain"
	"github.com/earnbox/earnbox/internal/infra/clock"
	"github.com/earnbox/earnbox/internal/infra/observability"
)

// DefaultSuccessTTL is how long the success message stays visible.
const DefaultSuccessTTL = 4 * time.Second

// Config controls the withdrawal flow.
type Config struct {
	SuccessTTL time.Duration
}

// DefaultConfig returns the default flow configuration.
func DefaultConfig() Config {
	return Config{SuccessTTL: DefaultSuccessTTL}
}

// Ledger is what the flow needs from the ledger store.
type Ledger interface {
	domain.BalanceReader
	AppendWith(build func(balance decimal.Decimal) (domain.Entry, error)) (domain.Transaction, error)
}

// Status is what the form renders besides its inputs.
type Status struct {
	Enabled bool     `json:"enabled"`
	Message string   `json:"message"`
	Methods []Method `json:"methods"`
}

// Flow is the withdrawal form state. Safe for concurrent use.
type Flow struct {
	ledger Ledger
	clk    clock.Clock
	ttl    time.Duration

	mu      sync.Mutex
	message string
	clear   clock.Timer
	gen     uint64 // bumped on every message change
}

// NewFlow creates a withdrawal flow over l.
func NewFlow(l Ledger, clk clock.Clock, cfg Config) *Flow {
	if cfg.SuccessTTL <= 0 {
		cfg.SuccessTTL = DefaultSuccessTTL
	}
	return &Flow{ledger: l, clk: clk, ttl: cfg.SuccessTTL}
}

// Enabled reports whether submit is available (balance > 0).
func (f *Flow) Enabled() bool {
	return f.ledger.Balance().IsPositive()
}

// Message returns the transient success message, or "" once it has cleared.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Status returns Enabled and Message together with the payout rails the
// form offers.
func (f *Flow) Status() Status {
	return Status{Enabled: f.Enabled(), Message: f.Message(), Methods: slices.Clone(Methods)}
}

// Submit validates req and posts the debit. Validation and the append run
// atomically against the ledger, so concurrent submits cannot overdraw.
// Rejections are *domain.ValidationError values and leave the ledger as is.
func (f *Flow) Submit(req Request) (domain.Transaction, error) {
	f.setMessage("")

	var amount decimal.Decimal
	tx, err := f.ledger.AppendWith(func(balance decimal.Decimal) (domain.Entry, error) {
		if !balance.IsPositive() {
			return domain.Entry{}, ErrWithdrawDisabled
		}
		a, err := Validate(req, balance)
		if err != nil {
			return domain.Entry{}, err
		}
		source, _ := SourceLabel(req.Method, req.BankName)
		amount = a
		return domain.Entry{
			Source: source,
			Amount: a.Neg(),
			Date:   domain.DateOf(f.clk.Now()),
		}, nil
	})
	if err != nil {
		observability.Withdrawals.WithLabelValues(resultCode(err)).Inc()
		return domain.Transaction{}, err
	}

	observability.Withdrawals.WithLabelValues("ok").Inc()
	log.Printf("[withdraw] %s RS %s", tx.Source, amount.StringFixed(2))
	f.setMessage(fmt.Sprintf("Successfully withdrew RS %s!", amount.StringFixed(2)))
	return tx, nil
}

// Close cancels the pending message clear.
func (f *Flow) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clear != nil {
		f.clear.Stop()
		f.clear = nil
	}
	return nil
}

func (f *Flow) setMessage(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clear != nil {
		f.clear.Stop()
		f.clear = nil
	}
	f.gen++
	f.message = msg
	if msg == "" {
		return
	}

	gen := f.gen
	f.clear = f.clk.AfterFunc(f.ttl, func() { f.expire(gen) })
}

func (f *Flow) expire(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return
	}
	f.message = ""
	f.clear = nil
}

func resultCode(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return "error"
}
