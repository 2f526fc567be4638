package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestSetBalance(t *testing.T) {
	SetBalance(decimal.RequireFromString("12.75"))
	if got := testutil.ToFloat64(LedgerBalance); got != 12.75 {
		t.Errorf("LedgerBalance = %v, want 12.75", got)
	}

	SetBalance(decimal.RequireFromString("-3.5"))
	if got := testutil.ToFloat64(LedgerBalance); got != -3.5 {
		t.Errorf("LedgerBalance = %v, want -3.5", got)
	}
}

func TestCounterVecs_AcceptLabels(t *testing.T) {
	before := testutil.ToFloat64(RewardTransitions.WithLabelValues("like", "idle"))
	RewardTransitions.WithLabelValues("like", "idle").Inc()
	after := testutil.ToFloat64(RewardTransitions.WithLabelValues("like", "idle"))
	if after-before != 1 {
		t.Errorf("RewardTransitions delta = %v, want 1", after-before)
	}

	before = testutil.ToFloat64(Withdrawals.WithLabelValues("ok"))
	Withdrawals.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(Withdrawals.WithLabelValues("ok")) - before; got != 1 {
		t.Errorf("Withdrawals delta = %v, want 1", got)
	}
}
