package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/earnbox/earnbox/internal/app/ledger"
	"github.com/earnbox/earnbox/internal/app/withdraw"
	"github.com/earnbox/earnbox/internal/infra/clock"
)

func init() {
	rootCmd.AddCommand(withdrawCmd)

	withdrawCmd.Flags().StringP("method", "m", string(withdraw.JazzCash), "jazzcash, easypaisa or bank")
	withdrawCmd.Flags().StringP("amount", "a", "", "Amount in RS")
	withdrawCmd.Flags().String("name", "", "Account holder name")
	withdrawCmd.Flags().String("number", "", "Account or mobile number")
	withdrawCmd.Flags().String("bank", "", "Bank name (bank transfers only)")
	withdrawCmd.MarkFlagRequired("amount")
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw from the balance",
	Long: `Validate a withdrawal against the stored balance and record it. Refuses
while a daemon is serving the configured address; use POST /api/withdrawals
instead.`,
	RunE: runWithdraw,
}

func runWithdraw(cmd *cobra.Command, args []string) error {
	method, _ := cmd.Flags().GetString("method")
	req := withdraw.Request{Method: withdraw.Method(method)}
	req.Amount, _ = cmd.Flags().GetString("amount")
	req.AccountName, _ = cmd.Flags().GetString("name")
	req.AccountNumber, _ = cmd.Flags().GetString("number")
	req.BankName, _ = cmd.Flags().GetString("bank")

	return withWritableLedger(cmd, func(s *ledger.Store) error {
		flow := withdraw.NewFlow(s, clock.Real(), withdraw.DefaultConfig())
		defer flow.Close()

		if _, err := flow.Submit(req); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "✅ %s\n", flow.Message())
		fmt.Fprintf(os.Stdout, "   Balance: RS %s\n", s.Balance().StringFixed(2))
		return nil
	})
}
