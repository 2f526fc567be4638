// Package ledger implements the rewards ledger: an append-only, newest-first
// list of transactions persisted as one JSON document under a single key.
//
// The in-memory ledger is the source of truth for the running process.
// Storage is best-effort on read (a bad payload loads as empty) and
// fire-and-forget on write (a failed write is logged, never rolled back).
package ledger

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/earnbox/earnbox/internal/domain"
	"github.com/earnbox/earnbox/internal/infra/observability"
)

// DefaultKey is the storage key holding the serialized ledger.
const DefaultKey = "earnings"

// Config controls where the ledger is persisted.
type Config struct {
	Key string // Storage key (default: "earnings")
}

// DefaultConfig returns the default ledger configuration.
func DefaultConfig() Config {
	return Config{Key: DefaultKey}
}

// Store is the process-wide ledger. Construct it once and pass it by
// reference to every consumer.
type Store struct {
	mu        sync.RWMutex
	kv        domain.KeyValueStore
	key       string
	entries   []domain.Transaction // newest first
	listeners []func(domain.Transaction)
	newID     func() string
}

var (
	_ domain.EarningSink   = (*Store)(nil)
	_ domain.BalanceReader = (*Store)(nil)
)

// Load builds a Store from whatever is persisted under cfg.Key.
// Missing, unreadable or corrupt data yields an empty ledger; the error is
// logged and startup continues.
func Load(kv domain.KeyValueStore, cfg Config) *Store {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	s := &Store{
		kv:    kv,
		key:   cfg.Key,
		newID: func() string { return uuid.NewString() },
	}

	data, ok, err := kv.Get(cfg.Key)
	switch {
	case err != nil:
		log.Printf("[ledger] could not read %q, starting empty: %v", cfg.Key, err)
		observability.LedgerLoadFailures.Inc()
	case !ok:
		// Fresh install.
	default:
		entries, err := decode(data)
		if err != nil {
			log.Printf("[ledger] could not parse %q, starting empty: %v", cfg.Key, err)
			observability.LedgerLoadFailures.Inc()
			break
		}
		s.entries = entries
	}

	s.publishGauges()
	return s
}

// OnAppend registers fn to run after every append, outside the store lock.
func (s *Store) OnAppend(fn func(domain.Transaction)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Append assigns e a unique id, inserts it at the head of the ledger and
// persists the whole ledger.
func (s *Store) Append(e domain.Entry) domain.Transaction {
	s.mu.Lock()
	tx := s.insertLocked(e)
	listeners := s.listeners
	s.mu.Unlock()

	s.notify(listeners, tx)
	return tx
}

// AppendWith runs build against the current balance and appends the entry it
// returns, holding the lock throughout so no other append can slip between
// the balance check and the commit. A build error leaves the ledger untouched.
func (s *Store) AppendWith(build func(balance decimal.Decimal) (domain.Entry, error)) (domain.Transaction, error) {
	s.mu.Lock()
	e, err := build(domain.Sum(s.entries))
	if err != nil {
		s.mu.Unlock()
		return domain.Transaction{}, err
	}
	tx := s.insertLocked(e)
	listeners := s.listeners
	s.mu.Unlock()

	s.notify(listeners, tx)
	return tx, nil
}

// Persist writes the full ledger to storage. Failures are logged and
// returned; the in-memory ledger is never rolled back.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// Balance returns the sum of every amount in the ledger.
func (s *Store) Balance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Sum(s.entries)
}

// Entries returns a copy of the ledger, newest first.
func (s *Store) Entries() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of transactions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// insertLocked prepends a new transaction and persists. Caller holds s.mu.
func (s *Store) insertLocked(e domain.Entry) domain.Transaction {
	tx := domain.Transaction{ID: s.newID(), Entry: e}

	entries := make([]domain.Transaction, 0, len(s.entries)+1)
	entries = append(entries, tx)
	s.entries = append(entries, s.entries...)

	observability.LedgerAppends.WithLabelValues(tx.Kind()).Inc()
	s.persistLocked()
	return tx
}

func (s *Store) persistLocked() error {
	s.publishGaugesLocked()

	data, err := encode(s.entries)
	if err == nil {
		err = s.kv.Set(s.key, data)
	}
	if err != nil {
		log.Printf("[ledger] could not save %d transactions to %q: %v", len(s.entries), s.key, err)
		observability.LedgerPersistFailures.Inc()
	}
	return err
}

func (s *Store) publishGauges() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.publishGaugesLocked()
}

func (s *Store) publishGaugesLocked() {
	observability.SetBalance(domain.Sum(s.entries))
	observability.LedgerEntries.Set(float64(len(s.entries)))
}

func (s *Store) notify(listeners []func(domain.Transaction), tx domain.Transaction) {
	for _, fn := range listeners {
		fn(tx)
	}
}
