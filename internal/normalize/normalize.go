// Package normalize turns raw extracted rows into the canonical ledger.
package normalize

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesaflow/pesaflow/internal/amount"
	"github.com/pesaflow/pesaflow/internal/classification"
	"github.com/pesaflow/pesaflow/internal/ingest"
	"github.com/pesaflow/pesaflow/internal/model"
)

// timestampLayouts are tried in order; slash dates are day-first.
var timestampLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006 3:04PM",
	"2/1/2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2-1-2006",
}

// Normalize cleans, type-casts and sorts raw rows into a ledger. Rows that
// fail to produce a timestamp, a non-empty description and a non-zero amount
// are dropped silently. The result is sorted ascending by timestamp; the
// behavioral model is sequence-sensitive and depends on this ordering.
// Applying Normalize to an already-normalized ledger's rows is a no-op.
func Normalize(rows []ingest.RawRow) model.Ledger {
	ledger := make(model.Ledger, 0, len(rows))

	for _, row := range rows {
		txn, ok := normalizeRow(row)
		if !ok {
			continue
		}
		ledger = append(ledger, txn)
	}

	sort.SliceStable(ledger, func(i, j int) bool {
		return ledger[i].Timestamp.Before(ledger[j].Timestamp)
	})
	return ledger
}

func normalizeRow(row ingest.RawRow) (model.Transaction, bool) {
	when := row.When
	if when.IsZero() {
		parsed, ok := parseTimestamp(row.RawWhen)
		if !ok {
			return model.Transaction{}, false
		}
		when = parsed
	}

	description := strings.TrimSpace(row.Description)
	if description == "" || strings.EqualFold(description, "nan") {
		return model.Transaction{}, false
	}

	amt := row.Amount
	if amt.IsZero() {
		amt = coerceAmount(row)
	}
	if amt.IsZero() {
		return model.Transaction{}, false
	}

	balance := row.Balance
	if balance.IsZero() && row.RawBalance != "" {
		balance = amount.Parse(row.RawBalance)
	}

	txType := row.Type
	if txType == "" {
		txType = classification.ClassifyType(description)
	}

	return model.Transaction{
		Timestamp:   when,
		Description: description,
		ReceiptID:   row.ReceiptID,
		Type:        txType,
		Amount:      amt,
		Balance:     balance,
	}, true
}

// coerceAmount resolves the row's string amount fields. Separate paid-in and
// withdrawn columns merge into one signed value: paid in − withdrawn.
func coerceAmount(row ingest.RawRow) decimal.Decimal {
	if row.RawAmount != "" {
		return amount.Parse(row.RawAmount)
	}
	if row.RawPaidIn == "" && row.RawWithdrawn == "" {
		return decimal.Zero
	}
	paidIn := amount.Parse(row.RawPaidIn).Abs()
	withdrawn := amount.Parse(row.RawWithdrawn).Abs()
	return paidIn.Sub(withdrawn)
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
