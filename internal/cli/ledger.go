package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/earnbox/earnbox/internal/app/ledger"
	"github.com/earnbox/earnbox/internal/app/summary"
	"github.com/earnbox/earnbox/internal/daemon"
)

// ─── Ledger CLI ─────────────────────────────────────────────────────────────
// Read-only views over the stored ledger. A running daemon keeps its own
// copy in memory, so these show what was last persisted.

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerBalanceCmd)
	ledgerCmd.AddCommand(ledgerSummaryCmd)
	ledgerCmd.AddCommand(ledgerChartCmd)

	ledgerListCmd.Flags().IntP("limit", "n", 0, "Show only the N newest transactions")
	ledgerChartCmd.Flags().Int("months", summary.MaxMonths, "Number of months to show")
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the rewards ledger",
}

// withWritableLedger is withLedger for commands that append. It refuses while
// a daemon is serving the same config, since the daemon would overwrite the
// entry on its next persist.
func withWritableLedger(cmd *cobra.Command, fn func(*ledger.Store) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if daemon.Running(cfg.API) {
		return fmt.Errorf("%w at %s: use the HTTP API or stop it first", daemon.ErrDaemonRunning, cfg.API.Addr())
	}
	return withLedger(cmd, fn)
}

// withLedger opens the configured ledger for the duration of fn.
func withLedger(cmd *cobra.Command, fn func(*ledger.Store) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := daemon.OpenLedger(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(store)
}

// ─── ledger list ────────────────────────────────────────────────────────────

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withLedger(cmd, func(s *ledger.Store) error {
			return printTransactions(os.Stdout, s, limit)
		})
	},
}

func printTransactions(w io.Writer, s *ledger.Store, limit int) error {
	entries := s.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No transactions yet.")
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSOURCE\tAMOUNT")
	for _, tx := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tx.Date, tx.Source, tx.Amount.StringFixed(2))
	}
	return tw.Flush()
}

// ─── ledger balance ─────────────────────────────────────────────────────────

var ledgerBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the current balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, func(s *ledger.Store) error {
			fmt.Fprintf(os.Stdout, "RS %s\n", s.Balance().StringFixed(2))
			return nil
		})
	},
}

// ─── ledger summary ─────────────────────────────────────────────────────────

var ledgerSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the dashboard cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd, func(s *ledger.Store) error {
			printDashboard(os.Stdout, summary.BuildDashboard(s.Entries()))
			return nil
		})
	},
}

func printDashboard(w io.Writer, d summary.Dashboard) {
	fmt.Fprintf(w, "Total Earnings:   RS %s\n", d.Balance.StringFixed(2))
	fmt.Fprintf(w, "Average Earning:  RS %s\n", d.Average.StringFixed(2))
	fmt.Fprintf(w, "Top Source:       %s\n", d.TopSource)
	fmt.Fprintf(w, "Transactions:     %d\n", d.Count)
}

// ─── ledger chart ───────────────────────────────────────────────────────────

var ledgerChartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show monthly totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		months, _ := cmd.Flags().GetInt("months")
		return withLedger(cmd, func(s *ledger.Store) error {
			printChart(os.Stdout, summary.Monthly(s.Entries(), months))
			return nil
		})
	},
}

const chartWidth = 40

func printChart(w io.Writer, buckets []summary.MonthBucket) {
	if len(buckets) == 0 {
		fmt.Fprintln(w, "No transactions yet.")
		return
	}
	peak := buckets[0].Total.Abs()
	for _, b := range buckets[1:] {
		if b.Total.Abs().GreaterThan(peak) {
			peak = b.Total.Abs()
		}
	}
	for _, b := range buckets {
		bar := 0
		if peak.IsPositive() {
			f, _ := b.Total.Abs().Div(peak).Float64()
			bar = int(f * chartWidth)
		}
		fmt.Fprintf(w, "%s  %-*s  %s\n", b.Label, chartWidth, strings.Repeat("█", bar), b.Total.StringFixed(2))
	}
}
