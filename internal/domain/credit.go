package domain

import (
	"github.com/shopspring/decimal"
)

// ─── Ledger Types ───────────────────────────────────────────────────────────
// A Transaction is immutable once appended. Positive amounts are credits,
// negative amounts are debits; the balance is always derived from the full
// ledger, never stored.

// Entry is a transaction that has not been assigned an id yet.
// It is what reward surfaces and forms hand to the ledger.
type Entry struct {
	Source string          `json:"source"`
	Amount decimal.Decimal `json:"amount"`
	Date   Date            `json:"date"`
}

// Transaction is a single row of the rewards ledger.
type Transaction struct {
	ID string `json:"id"`
	Entry
}

// IsCredit reports whether the transaction adds to the balance.
func (t Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// Kind returns "credit" or "debit" (zero amounts count as debit).
func (t Transaction) Kind() string {
	if t.IsCredit() {
		return "credit"
	}
	return "debit"
}

// Sum returns the arithmetic sum of every amount in txs.
func Sum(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Amount)
	}
	return total
}
