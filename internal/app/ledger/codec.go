package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/earnbox/earnbox/internal/domain"
)

// record is the persisted shape of a transaction: {id, source, amount, date}
// with amount as a plain JSON number.
type record struct {
	ID     string      `json:"id"`
	Source string      `json:"source"`
	Amount json.Number `json:"amount"`
	Date   string      `json:"date"`
}

// encode serializes the full ledger, newest-first.
func encode(entries []domain.Transaction) ([]byte, error) {
	out := make([]record, len(entries))
	for i, t := range entries {
		out[i] = record{
			ID:     t.ID,
			Source: t.Source,
			Amount: json.Number(t.Amount.String()),
			Date:   t.Date.String(),
		}
	}
	return json.Marshal(out)
}

// decode parses a persisted ledger. Any structurally invalid record rejects
// the whole payload.
func decode(data []byte) ([]domain.Transaction, error) {
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptLedger, err)
	}

	out := make([]domain.Transaction, 0, len(recs))
	for i, r := range recs {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", domain.ErrCorruptLedger, i)
		}
		amount, err := decimal.NewFromString(r.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("%w: record %d amount %q", domain.ErrCorruptLedger, i, r.Amount)
		}
		date, err := domain.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", domain.ErrCorruptLedger, i, err)
		}
		out = append(out, domain.Transaction{
			ID:    r.ID,
			Entry: domain.Entry{Source: r.Source, Amount: amount, Date: date},
		})
	}
	return out, nil
}
