package ingest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesaflow/pesaflow/internal/model"
)

func TestMatchTransactionLineFullGrammar(t *testing.T) {
	row, ok := matchTransactionLine("1/7/2025 10:30 SFC3K1XQ2P Merchant Payment to NAIVAS KSh 1,500.00 KSh 3,500.00")
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC), row.When)
	assert.Equal(t, "SFC3K1XQ2P", row.ReceiptID)
	assert.Equal(t, "Merchant Payment to NAIVAS", row.Description)
	assert.Equal(t, model.TypeBuyGoods, row.Type)
	// No explicit sign marker, so the outflow type forces a negative amount.
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("-1500")), "amount %s", row.Amount)
	assert.True(t, row.Balance.Equal(decimal.RequireFromString("3500")), "balance %s", row.Balance)
}

func TestMatchTransactionLineAMPMTime(t *testing.T) {
	row, ok := matchTransactionLine("15/8/2025 2:05 PM TXR77Q1 Sent to Jane 250.00")
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, 8, 15, 14, 5, 0, 0, time.UTC), row.When)
	assert.Equal(t, "TXR77Q1", row.ReceiptID)
	assert.Equal(t, model.TypeSendMoney, row.Type)
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("-250")))
}

func TestMatchTransactionLineMinimalGrammar(t *testing.T) {
	row, ok := matchTransactionLine("15/8/2025 Sent to John Doe 500.00")
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), row.When)
	assert.Empty(t, row.ReceiptID)
	assert.Equal(t, "Sent to John Doe", row.Description)
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("-500")))
}

func TestMatchTransactionLineExplicitSignWins(t *testing.T) {
	// CR marks money in; the type-based sign inference must not override it.
	row, ok := matchTransactionLine("15/8/2025 Sent to John 500.00 CR")
	require.True(t, ok)
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("500")), "amount %s", row.Amount)

	row, ok = matchTransactionLine("15/8/2025 Received from ACME (1,000.00)")
	require.True(t, ok)
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("-1000")), "amount %s", row.Amount)
}

func TestMatchTransactionLineFallbackGrammar(t *testing.T) {
	row, ok := matchTransactionLine("Transaction 1/7/2025 Sent to Jane KSh 300.00 balance")
	require.True(t, ok)
	assert.Equal(t, "Sent to Jane", row.Description)
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("-300")))
}

func TestMatchTransactionLineRejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too short", "1/7/2025"},
		{"no amount", "Statement for 1/7/2025 to 31/7/2025"},
		{"no date", "Merchant Payment to NAIVAS 1,500.00 was processed"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := matchTransactionLine(tt.line)
			assert.False(t, ok)
		})
	}
}

func TestMatchTransactionLineConsumesUnusableMatch(t *testing.T) {
	// The line parses under a grammar but the amount is zero: the grammar
	// still consumes it, no later template gets a second attempt.
	_, ok := matchTransactionLine("1/7/2025 Payment of goods 0.00")
	assert.False(t, ok)
}

func TestParseStatementDate(t *testing.T) {
	tests := []struct {
		name    string
		dateStr string
		timeStr string
		want    time.Time
		ok      bool
	}{
		{"date only", "2/1/2025", "", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"24h time", "2/1/2025", "19:47", time.Date(2025, 1, 2, 19, 47, 0, 0, time.UTC), true},
		{"24h with seconds", "2/1/2025", "19:47:53", time.Date(2025, 1, 2, 19, 47, 53, 0, time.UTC), true},
		{"am-pm", "2/1/2025", "7:05 PM", time.Date(2025, 1, 2, 19, 5, 0, 0, time.UTC), true},
		{"invalid date", "33/1/2025", "", time.Time{}, false},
		{"invalid time", "2/1/2025", "99:99", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseStatementDate(tt.dateStr, tt.timeStr)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
			}
		})
	}
}
