// Package manual implements the "Add New Earning" form for entering
// earnings by hand.
package manual

import (
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/earnbox/earnbox/internal/domain"
	"github.com/earnbox/earnbox/internal/infra/clock"
)

// Request is one submitted form. An empty Date means today.
type Request struct {
	Source string `json:"source"`
	Amount string `json:"amount"`
	Date   string `json:"date,omitempty"`
}

var (
	ErrFieldsRequired = &domain.ValidationError{
		Code:    "fields_required",
		Message: "All fields are required.",
	}
	ErrInvalidAmount = &domain.ValidationError{
		Code:    "invalid_amount",
		Message: "Please enter a valid positive amount.",
	}
	ErrInvalidDate = &domain.ValidationError{
		Code:    "invalid_date",
		Message: "Please enter the date as YYYY-MM-DD.",
	}
)

// Form posts hand-entered earnings to the ledger.
type Form struct {
	sink domain.EarningSink
	clk  clock.Clock
}

// NewForm creates a form writing to sink.
func NewForm(sink domain.EarningSink, clk clock.Clock) *Form {
	return &Form{sink: sink, clk: clk}
}

// Parse validates req into a ledger entry without posting it.
func (f *Form) Parse(req Request) (domain.Entry, error) {
	source := strings.TrimSpace(req.Source)
	amountText := strings.TrimSpace(req.Amount)
	if source == "" || amountText == "" {
		return domain.Entry{}, ErrFieldsRequired
	}

	amount, err := decimal.NewFromString(amountText)
	if err != nil || !amount.IsPositive() {
		return domain.Entry{}, ErrInvalidAmount
	}

	date := domain.DateOf(f.clk.Now())
	if d := strings.TrimSpace(req.Date); d != "" {
		if date, err = domain.ParseDate(d); err != nil {
			return domain.Entry{}, ErrInvalidDate
		}
	}
	return domain.Entry{Source: source, Amount: amount, Date: date}, nil
}

// Submit validates req and appends it.
func (f *Form) Submit(req Request) (domain.Transaction, error) {
	e, err := f.Parse(req)
	if err != nil {
		return domain.Transaction{}, err
	}
	tx := f.sink.Append(e)
	log.Printf("[ledger] manual entry %q RS %s on %s", tx.Source, tx.Amount.StringFixed(2), tx.Date)
	return tx, nil
}
