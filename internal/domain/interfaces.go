package domain

import (
	"github.com/shopspring/decimal"
)

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// KeyValueStore is durable local storage addressed by a single string key.
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)

	// Set overwrites the value stored under key.
	Set(key string, value []byte) error
}

// EarningSink is the sole write path into the ledger.
// Reward surfaces and forms receive one at construction.
type EarningSink interface {
	Append(e Entry) Transaction
}

// BalanceReader exposes the current derived balance.
type BalanceReader interface {
	Balance() decimal.Decimal
}

// LinkOpener opens an external URL. Calls are fire-and-forget: a failure
// never blocks the action that triggered it.
type LinkOpener interface {
	Open(url string) error
}
