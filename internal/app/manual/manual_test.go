package manual

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/earnbox/earnbox/internal/app/ledger"
	"github.com/earnbox/earnbox/internal/domain"
	"github.com/earnbox/earnbox/internal/infra/clock"
	"github.com/earnbox/earnbox/internal/infra/kv"
)

func newForm(t *testing.T) (*Form, *ledger.Store) {
	t.Helper()
	store := ledger.Load(kv.NewMemory(), ledger.DefaultConfig())
	clk := clock.NewManual(time.Date(2024, time.June, 30, 23, 0, 0, 0, time.UTC))
	return NewForm(store, clk), store
}

func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"blank source", Request{Source: "  ", Amount: "1"}, ErrFieldsRequired},
		{"blank amount", Request{Source: "Freelance", Amount: ""}, ErrFieldsRequired},
		{"non numeric", Request{Source: "Freelance", Amount: "ten"}, ErrInvalidAmount},
		{"zero", Request{Source: "Freelance", Amount: "0"}, ErrInvalidAmount},
		{"negative", Request{Source: "Freelance", Amount: "-2"}, ErrInvalidAmount},
		{"bad date", Request{Source: "Freelance", Amount: "2", Date: "30/06/2024"}, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, store := newForm(t)
			if _, err := f.Submit(tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Submit() error = %v, want %v", err, tt.want)
			}
			if store.Len() != 0 {
				t.Errorf("Len() = %d, want 0", store.Len())
			}
		})
	}
}

func TestSubmit_Appends(t *testing.T) {
	f, store := newForm(t)
	tx, err := f.Submit(Request{Source: " Freelance ", Amount: "150.75", Date: "2024-01-15"})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if tx.Source != "Freelance" || !tx.Amount.Equal(decimal.RequireFromString("150.75")) {
		t.Errorf("tx = %+v", tx)
	}
	if tx.Date != domain.MustParseDate("2024-01-15") {
		t.Errorf("Date = %s", tx.Date)
	}
	if store.Len() != 1 || store.Entries()[0].ID != tx.ID {
		t.Error("transaction not appended")
	}
}

func TestSubmit_DefaultsToToday(t *testing.T) {
	f, _ := newForm(t)
	tx, err := f.Submit(Request{Source: "Tips", Amount: "1"})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if tx.Date != domain.MustParseDate("2024-06-30") {
		t.Errorf("Date = %s, want 2024-06-30", tx.Date)
	}
}
