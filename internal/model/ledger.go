package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is the canonical, time-ordered sequence of normalized transactions.
// It is built fresh per uploaded statement and never mutated after
// normalization, except for category assignment.
type Ledger []Transaction

// TotalInflow sums all positive amounts.
func (l Ledger) TotalInflow() decimal.Decimal {
	total := decimal.Zero
	for _, t := range l {
		if t.Amount.IsPositive() {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalOutflow sums the magnitudes of all negative amounts.
func (l Ledger) TotalOutflow() decimal.Decimal {
	total := decimal.Zero
	for _, t := range l {
		if t.Amount.IsNegative() {
			total = total.Add(t.Amount.Neg())
		}
	}
	return total
}

// SpanDays returns the number of days between the first and last transaction.
func (l Ledger) SpanDays() float64 {
	if len(l) < 2 {
		return 0
	}
	return l[len(l)-1].Timestamp.Sub(l[0].Timestamp).Hours() / 24
}

// Categories returns the distinct categories in ledger order of first appearance.
func (l Ledger) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range l {
		if t.Category != "" && !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// IsSorted reports whether timestamps are ascending.
func (l Ledger) IsSorted() bool {
	for i := 1; i < len(l); i++ {
		if l[i].Timestamp.Before(l[i-1].Timestamp) {
			return false
		}
	}
	return true
}

// Between returns transactions with timestamps in [from, to).
func (l Ledger) Between(from, to time.Time) Ledger {
	var out Ledger
	for _, t := range l {
		if !t.Timestamp.Before(from) && t.Timestamp.Before(to) {
			out = append(out, t)
		}
	}
	return out
}
