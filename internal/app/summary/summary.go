// Package summary derives dashboard views from the ledger.
// Everything here is a pure function of the transaction list and is
// recomputed on every read; nothing is cached.
package summary

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/earnbox/earnbox/internal/domain"
)

// NoSource is reported by TopSource when there are no credits.
const NoSource = "N/A"

// MaxMonths is the number of monthly buckets the chart shows.
const MaxMonths = 12

// ─── Totals ─────────────────────────────────────────────────────────────────

// Totals is the headline numbers of the dashboard.
type Totals struct {
	Balance       decimal.Decimal `json:"balance"`
	Average       decimal.Decimal `json:"average"`
	PositiveCount int             `json:"positive_count"`
	Count         int             `json:"count"`
}

// ComputeTotals returns the balance over every entry and the average credit.
// Debits count toward the balance but never toward the average.
func ComputeTotals(entries []domain.Transaction) Totals {
	t := Totals{Balance: decimal.Zero, Average: decimal.Zero, Count: len(entries)}
	positive := decimal.Zero
	for _, e := range entries {
		t.Balance = t.Balance.Add(e.Amount)
		if e.IsCredit() {
			positive = positive.Add(e.Amount)
			t.PositiveCount++
		}
	}
	if t.PositiveCount > 0 {
		t.Average = positive.Div(decimal.NewFromInt(int64(t.PositiveCount)))
	}
	return t
}

// ─── Top Source ─────────────────────────────────────────────────────────────

// TopSource returns the source with the greatest summed credits.
// Ties go to the source encountered first while walking entries.
func TopSource(entries []domain.Transaction) string {
	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, e := range entries {
		if !e.IsCredit() {
			continue
		}
		cur, seen := sums[e.Source]
		if !seen {
			order = append(order, e.Source)
			cur = decimal.Zero
		}
		sums[e.Source] = cur.Add(e.Amount)
	}
	if len(order) == 0 {
		return NoSource
	}

	best := order[0]
	for _, src := range order[1:] {
		if sums[src].GreaterThan(sums[best]) {
			best = src
		}
	}
	return best
}

// ─── Monthly Series ─────────────────────────────────────────────────────────

// MonthBucket is one bar of the monthly chart.
type MonthBucket struct {
	Label string          `json:"label"` // e.g. "Jan 24"
	Year  int             `json:"year"`
	Month time.Month      `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// MonthLabel formats a bucket label as short month and two-digit year.
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %02d", month.String()[:3], year%100)
}

// Monthly sums amounts per calendar month, oldest first, keeping only the
// most recent limit buckets. limit <= 0 keeps every bucket.
func Monthly(entries []domain.Transaction, limit int) []MonthBucket {
	type key struct {
		year  int
		month time.Month
	}
	totals := make(map[key]decimal.Decimal)
	for _, e := range entries {
		k := key{e.Date.Year, e.Date.Month}
		cur, ok := totals[k]
		if !ok {
			cur = decimal.Zero
		}
		totals[k] = cur.Add(e.Amount)
	}

	out := make([]MonthBucket, 0, len(totals))
	for k, total := range totals {
		out = append(out, MonthBucket{
			Label: MonthLabel(k.year, k.month),
			Year:  k.year,
			Month: k.month,
			Total: total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// ─── Dashboard ──────────────────────────────────────────────────────────────

// Dashboard bundles the summary cards.
type Dashboard struct {
	Totals
	TopSource string `json:"top_source"`
}

// BuildDashboard computes every summary card from entries.
func BuildDashboard(entries []domain.Transaction) Dashboard {
	return Dashboard{
		Totals:    ComputeTotals(entries),
		TopSource: TopSource(entries),
	}
}
