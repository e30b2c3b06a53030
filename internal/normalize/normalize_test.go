package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesaflow/pesaflow/internal/ingest"
	"github.com/pesaflow/pesaflow/internal/model"
)

func TestNormalizeBuildsOrderedLedger(t *testing.T) {
	rows := []ingest.RawRow{
		{RawWhen: "3/7/2025", Description: "Merchant Payment to NAIVAS SUPERMARKET", RawAmount: "-5,000.00"},
		{RawWhen: "1/7/2025", Description: "Business Payment from ACME LTD SALARY PAYMENT", RawAmount: "80,000.00"},
		{RawWhen: "2/7/2025", Description: "Sent to UBER TRIP", RawAmount: "-500.00"},
	}

	ledger := Normalize(rows)
	require.Len(t, ledger, 3)
	assert.True(t, ledger.IsSorted())

	// Out-of-order input lands in timestamp order.
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), ledger[0].Timestamp)
	assert.Equal(t, time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC), ledger[2].Timestamp)

	// Types derived from descriptions when the extractor left them empty.
	assert.Equal(t, model.TypeReceiveMoney, ledger[0].Type)
	assert.Equal(t, model.TypeSendMoney, ledger[1].Type)
	assert.Equal(t, model.TypeBuyGoods, ledger[2].Type)

	assert.True(t, ledger.TotalInflow().Equal(decimal.RequireFromString("80000")))
	assert.True(t, ledger.TotalOutflow().Equal(decimal.RequireFromString("5500")))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rows := []ingest.RawRow{
		{RawWhen: "2/7/2025 14:30:00", Description: "Sent to JANE W", RawAmount: "-250.00"},
		{RawWhen: "1/7/2025", Description: "Received from ACME", RawAmount: "1,000.00"},
	}

	first := Normalize(rows)
	require.Len(t, first, 2)

	// Feed the normalized ledger back through as raw rows.
	again := make([]ingest.RawRow, len(first))
	for i, txn := range first {
		again[i] = ingest.RawRow{
			When:        txn.Timestamp,
			Description: txn.Description,
			ReceiptID:   txn.ReceiptID,
			Type:        txn.Type,
			Amount:      txn.Amount,
			Balance:     txn.Balance,
		}
	}

	second := Normalize(again)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Description, second[i].Description)
		assert.Equal(t, first[i].Type, second[i].Type)
		assert.True(t, first[i].Timestamp.Equal(second[i].Timestamp))
		assert.True(t, first[i].Amount.Equal(second[i].Amount))
	}
}

func TestNormalizeMergesPaidInWithdrawn(t *testing.T) {
	rows := []ingest.RawRow{
		{RawWhen: "1/7/2025", Description: "Business Payment from ACME", RawPaidIn: "80,000.00"},
		{RawWhen: "2/7/2025", Description: "Merchant Payment to NAIVAS", RawWithdrawn: "1,000.00"},
		{RawWhen: "3/7/2025", Description: "Customer Withdrawal at Agent", RawWithdrawn: "2,500.00"},
	}

	ledger := Normalize(rows)
	require.Len(t, ledger, 3)

	assert.True(t, ledger[0].Amount.Equal(decimal.RequireFromString("80000")))
	// Withdrawn-only rows come out negative even though the column value
	// carries no sign of its own.
	assert.True(t, ledger[1].Amount.Equal(decimal.RequireFromString("-1000")))
	assert.True(t, ledger[2].Amount.Equal(decimal.RequireFromString("-2500")))
}

func TestNormalizeDropsUnusableRows(t *testing.T) {
	tests := []struct {
		name string
		row  ingest.RawRow
	}{
		{
			name: "unparseable timestamp",
			row:  ingest.RawRow{RawWhen: "not a date", Description: "Sent to JANE", RawAmount: "-100.00"},
		},
		{
			name: "empty description",
			row:  ingest.RawRow{RawWhen: "1/7/2025", Description: "   ", RawAmount: "-100.00"},
		},
		{
			name: "nan description",
			row:  ingest.RawRow{RawWhen: "1/7/2025", Description: "NaN", RawAmount: "-100.00"},
		},
		{
			name: "unparseable amount",
			row:  ingest.RawRow{RawWhen: "1/7/2025", Description: "Sent to JANE", RawAmount: "abc"},
		},
		{
			name: "zero amount",
			row:  ingest.RawRow{RawWhen: "1/7/2025", Description: "Sent to JANE", RawAmount: "0.00"},
		},
		{
			name: "no amount fields",
			row:  ingest.RawRow{RawWhen: "1/7/2025", Description: "Sent to JANE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Normalize([]ingest.RawRow{tt.row}))
		})
	}
}

func TestNormalizeKeepsExtractorTypeAndBalance(t *testing.T) {
	rows := []ingest.RawRow{{
		When:        time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
		Description: "Some opaque narration",
		Type:        model.TypePayBill,
		Amount:      decimal.RequireFromString("-750"),
		Balance:     decimal.RequireFromString("4250"),
	}}

	ledger := Normalize(rows)
	require.Len(t, ledger, 1)
	assert.Equal(t, model.TypePayBill, ledger[0].Type)
	assert.True(t, ledger[0].Balance.Equal(decimal.RequireFromString("4250")))
}

func TestNormalizeParsesRawBalance(t *testing.T) {
	rows := []ingest.RawRow{{
		RawWhen:     "1/7/2025",
		Description: "Sent to JANE W",
		RawAmount:   "-250.00",
		RawBalance:  "KSh 4,750.00",
	}}

	ledger := Normalize(rows)
	require.Len(t, ledger, 1)
	assert.True(t, ledger[0].Balance.Equal(decimal.RequireFromString("4750")))
}

func TestParseTimestampLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2/1/2025 19:47:53", time.Date(2025, 1, 2, 19, 47, 53, 0, time.UTC)},
		{"2/1/2025 19:47", time.Date(2025, 1, 2, 19, 47, 0, 0, time.UTC)},
		{"2/1/2025 7:05PM", time.Date(2025, 1, 2, 19, 5, 0, 0, time.UTC)},
		{"2/1/2025", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2025-01-02 19:47:53", time.Date(2025, 1, 2, 19, 47, 53, 0, time.UTC)},
		{"2025-01-02T19:47:53", time.Date(2025, 1, 2, 19, 47, 53, 0, time.UTC)},
		{"2025-01-02", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2-1-2025", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := parseTimestamp(tt.in)
		require.True(t, ok, "parseTimestamp(%q)", tt.in)
		assert.True(t, got.Equal(tt.want), "parseTimestamp(%q) = %s, want %s", tt.in, got, tt.want)
	}

	_, ok := parseTimestamp("")
	assert.False(t, ok)
}
