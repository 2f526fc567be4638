package cli

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/earnbox/earnbox/internal/app/ledger"
	"github.com/earnbox/earnbox/internal/app/summary"
	"github.com/earnbox/earnbox/internal/daemon"
	"github.com/earnbox/earnbox/internal/domain"
	"github.com/earnbox/earnbox/internal/infra/kv"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestEarnAndWithdraw_UpdateStoredLedger(t *testing.T) {
	home := t.TempDir()
	t.Setenv("EARNBOX_HOME", home)

	if err := run(t, "earn", "--source", "Freelance", "--amount", "10", "--date", "2024-01-15"); err != nil {
		t.Fatalf("earn: %v", err)
	}
	if err := run(t, "withdraw", "--method", "bank", "--amount", "4", "--name", "Ali", "--number", "PK00", "--bank", "HBL"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	err := run(t, "withdraw", "--amount", "100", "--name", "Ali", "--number", "0300")
	if err == nil || err.Error() != "Withdrawal amount cannot exceed your current balance." {
		t.Errorf("overdraw error = %v", err)
	}

	store, closeStore, err := daemon.OpenLedger(daemon.StorageConfig{})
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	defer closeStore()
	if !store.Balance().Equal(decimal.NewFromInt(6)) {
		t.Errorf("Balance() = %s, want 6", store.Balance())
	}
	if got := store.Entries()[0].Source; got != "Withdrawal via HBL" {
		t.Errorf("newest source = %q", got)
	}
}

func TestEarnAndWithdraw_RefuseWhileDaemonServes(t *testing.T) {
	home := t.TempDir()
	t.Setenv("EARNBOX_HOME", home)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()
	port := srv.Listener.Addr().(*net.TCPAddr).Port
	cfg := fmt.Sprintf("[api]\nhost = \"127.0.0.1\"\nport = %d\n", port)
	if err := os.WriteFile(filepath.Join(home, daemon.ConfigFile), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	err := run(t, "earn", "--source", "Freelance", "--amount", "10", "--date", "2024-01-15")
	if !errors.Is(err, daemon.ErrDaemonRunning) {
		t.Errorf("earn error = %v, want ErrDaemonRunning", err)
	}
	err = run(t, "withdraw", "--method", "jazzcash", "--amount", "1", "--name", "Ali", "--number", "0300", "--bank", "")
	if !errors.Is(err, daemon.ErrDaemonRunning) {
		t.Errorf("withdraw error = %v, want ErrDaemonRunning", err)
	}

	store, closeStore, err := daemon.OpenLedger(daemon.StorageConfig{})
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	defer closeStore()
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want nothing written", store.Len())
	}
}

func TestEarn_RejectsInvalidAmount(t *testing.T) {
	t.Setenv("EARNBOX_HOME", t.TempDir())
	err := run(t, "earn", "--source", "Tips", "--amount", "-1")
	if err == nil || err.Error() != "Please enter a valid positive amount." {
		t.Errorf("error = %v", err)
	}
}

func TestPrintTransactions(t *testing.T) {
	s := ledger.Load(kv.NewMemory(), ledger.DefaultConfig())
	var buf bytes.Buffer
	printTransactions(&buf, s, 0)
	if !strings.Contains(buf.String(), "No transactions yet.") {
		t.Errorf("empty output = %q", buf.String())
	}

	for _, src := range []string{"A", "B", "C"} {
		s.Append(domain.Entry{Source: src, Amount: decimal.NewFromInt(1), Date: domain.MustParseDate("2024-01-01")})
	}
	buf.Reset()
	printTransactions(&buf, s, 2)
	out := buf.String()
	if !strings.Contains(out, "C") || !strings.Contains(out, "B") || strings.Contains(out, " A ") {
		t.Errorf("limited output = %q", out)
	}
	if !strings.Contains(out, "1.00") {
		t.Errorf("amounts not fixed to 2 places: %q", out)
	}
}

func TestPrintDashboardAndChart(t *testing.T) {
	entries := []domain.Transaction{
		{ID: "1", Entry: domain.Entry{Source: "Video Watched", Amount: decimal.RequireFromString("0.5"), Date: domain.MustParseDate("2024-01-02")}},
		{ID: "2", Entry: domain.Entry{Source: "Freelance", Amount: decimal.NewFromInt(2), Date: domain.MustParseDate("2024-02-02")}},
	}

	var buf bytes.Buffer
	printDashboard(&buf, summary.BuildDashboard(entries))
	if !strings.Contains(buf.String(), "Top Source:       Freelance") {
		t.Errorf("dashboard = %q", buf.String())
	}

	buf.Reset()
	printChart(&buf, summary.Monthly(entries, summary.MaxMonths))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Jan 24") || !strings.HasSuffix(lines[1], "2.00") {
		t.Errorf("chart = %q", buf.String())
	}
}
