// Package model defines the canonical transaction records shared across the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single normalized statement entry. Amounts are signed:
// positive = money in, negative = money out. Balance is informational only
// and may be zero when the source statement omitted it.
type Transaction struct {
	Timestamp   time.Time
	Description string
	ReceiptID   string
	Type        TransactionType
	Category    string // assigned by the categorizer after normalization
	Amount      decimal.Decimal
	Balance     decimal.Decimal
}

// IsOutflow reports whether the transaction moves money out of the account.
func (t Transaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}
