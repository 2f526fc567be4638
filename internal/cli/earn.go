package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/earnbox/earnbox/internal/app/ledger"
	"github.com/earnbox/earnbox/internal/app/manual"
	"github.com/earnbox/earnbox/internal/infra/clock"
)

func init() {
	rootCmd.AddCommand(earnCmd)

	earnCmd.Flags().StringP("source", "s", "", "Where the earning came from")
	earnCmd.Flags().StringP("amount", "a", "", "Amount in RS")
	earnCmd.Flags().StringP("date", "d", "", "Date as YYYY-MM-DD (default today)")
	earnCmd.MarkFlagRequired("source")
	earnCmd.MarkFlagRequired("amount")
}

var earnCmd = &cobra.Command{
	Use:   "earn",
	Short: "Add an earning by hand",
	Long: `Append a manual earning to the stored ledger. Refuses while a daemon is
serving the configured address; use POST /api/earnings instead.`,
	RunE: runEarn,
}

func runEarn(cmd *cobra.Command, args []string) error {
	var req manual.Request
	req.Source, _ = cmd.Flags().GetString("source")
	req.Amount, _ = cmd.Flags().GetString("amount")
	req.Date, _ = cmd.Flags().GetString("date")

	return withWritableLedger(cmd, func(s *ledger.Store) error {
		tx, err := manual.NewForm(s, clock.Real()).Submit(req)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "✅ Added RS %s from %s on %s\n", tx.Amount.StringFixed(2), tx.Source, tx.Date)
		fmt.Fprintf(os.Stdout, "   Balance: RS %s\n", s.Balance().StringFixed(2))
		return nil
	})
}
