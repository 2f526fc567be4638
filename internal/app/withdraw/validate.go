package withdraw

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/earnbox/earnbox/internal/domain"
)

// Method is a payout rail.
type Method string

const (
	JazzCash  Method = "jazzcash"
	Easypaisa Method = "easypaisa"
	Bank      Method = "bank"
)

// Methods lists the accepted payout rails in display order.
var Methods = []Method{JazzCash, Easypaisa, Bank}

// Request is one submitted withdrawal form.
type Request struct {
	Method        Method `json:"method"`
	Amount        string `json:"amount"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name,omitempty"`
}

// Withdrawal rejections, in the order they are checked.
var (
	ErrWithdrawDisabled = &domain.ValidationError{
		Code:    "disabled",
		Message: "Withdrawals are unavailable while your balance is zero.",
	}
	ErrInvalidAmount = &domain.ValidationError{
		Code:    "invalid_amount",
		Message: "Please enter a valid positive amount to withdraw.",
	}
	ErrExceedsBalance = &domain.ValidationError{
		Code:    "exceeds_balance",
		Message: "Withdrawal amount cannot exceed your current balance.",
	}
	ErrAccountRequired = &domain.ValidationError{
		Code:    "account_required",
		Message: "Account name and number are required.",
	}
	ErrBankNameRequired = &domain.ValidationError{
		Code:    "bank_name_required",
		Message: "Bank name is required for bank transfers.",
	}
	ErrUnknownMethod = &domain.ValidationError{
		Code:    "unknown_method",
		Message: "Please choose Jazz Cash, Easypaisa or Bank Transfer.",
	}
)

// Validate checks req against balance and returns the parsed amount.
// The first failing rule wins.
func Validate(req Request, balance decimal.Decimal) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.GreaterThan(balance) {
		return decimal.Zero, ErrExceedsBalance
	}
	if strings.TrimSpace(req.AccountName) == "" || strings.TrimSpace(req.AccountNumber) == "" {
		return decimal.Zero, ErrAccountRequired
	}
	if req.Method == Bank && strings.TrimSpace(req.BankName) == "" {
		return decimal.Zero, ErrBankNameRequired
	}
	if _, err := SourceLabel(req.Method, req.BankName); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// SourceLabel is the ledger source recorded for a withdrawal. Bank names are
// recorded trimmed.
func SourceLabel(m Method, bankName string) (string, error) {
	switch m {
	case JazzCash:
		return "Withdrawal via Jazz Cash", nil
	case Easypaisa:
		return "Withdrawal via Easypaisa", nil
	case Bank:
		return "Withdrawal via " + strings.TrimSpace(bankName), nil
	}
	return "", ErrUnknownMethod
}
