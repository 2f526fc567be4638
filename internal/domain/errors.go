package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────

var (
	// Ledger errors
	ErrCorruptLedger = errors.New("persisted ledger is corrupt")
	ErrInvalidDate   = errors.New("invalid date, want YYYY-MM-DD")

	// Storage errors
	ErrStoreClosed = errors.New("key-value store is closed")

	// Reward errors
	ErrSlotOutOfRange = errors.New("reward slot out of range")
	ErrSurfaceClosed  = errors.New("reward surface is closed")
	ErrUnknownSurface = errors.New("unknown reward surface")
)

// ─── Validation Errors ──────────────────────────────────────────────────────

// ValidationError is a form rejection with a message meant for the user.
// Each rejection is a package-level value, so errors.Is works by identity.
type ValidationError struct {
	Code    string // stable machine-readable reason, used as a metric label
	Message string // shown to the user verbatim
}

func (e *ValidationError) Error() string { return e.Message }
