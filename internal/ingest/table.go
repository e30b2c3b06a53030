package ingest

import (
	"strings"
	"time"

	"github.com/pesaflow/pesaflow/internal/amount"
	"github.com/pesaflow/pesaflow/internal/classification"
)

// Detailed-statement tables have fixed column semantics:
// receipt, completion time, details, status, paid in, withdrawn, balance.
const (
	tableMinCells = 6

	colReceipt    = 0
	colCompletion = 1
	colDetails    = 2
	colStatus     = 3
	colPaidIn     = 4
	colWithdrawn  = 5
	colBalance    = 6
)

var completionLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// extractTable scans the page's lines for the detailed-statement table and
// parses every row after its header. Returns the parsed rows and the index
// of the header line, or -1 when no table was recognized.
func extractTable(lines []Line) ([]RawRow, int) {
	headerIdx := -1
	for i, line := range lines {
		lower := strings.ToLower(line.Text)
		if strings.Contains(lower, "receipt") &&
			strings.Contains(lower, "completion") &&
			strings.Contains(lower, "details") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, -1
	}

	var rows []RawRow
	for _, line := range lines[headerIdx+1:] {
		if row, ok := parseTableRow(line.Cells); ok {
			rows = append(rows, row)
		}
	}
	return rows, headerIdx
}

// parseTableRow converts one table row's cells into a raw transaction row.
// Rows whose status is not COMPLETED, or that carry neither a paid-in nor a
// withdrawn amount, are discarded.
func parseTableRow(cells []string) (RawRow, bool) {
	if len(cells) < tableMinCells {
		return RawRow{}, false
	}

	completion := strings.TrimSpace(cells[colCompletion])
	details := strings.Join(strings.Fields(cells[colDetails]), " ")
	status := strings.TrimSpace(cells[colStatus])

	if completion == "" || details == "" || !strings.EqualFold(status, "COMPLETED") {
		return RawRow{}, false
	}

	when, ok := parseCompletionTime(completion)
	if !ok {
		return RawRow{}, false
	}

	paidIn := amount.Parse(cells[colPaidIn])
	withdrawn := amount.Parse(cells[colWithdrawn])

	row := RawRow{
		When:        when,
		Description: details,
		ReceiptID:   strings.TrimSpace(cells[colReceipt]),
		Type:        classification.ClassifyType(details),
	}

	// Net amount: money in wins, otherwise negate the withdrawal.
	switch {
	case paidIn.IsPositive():
		row.Amount = paidIn
	case withdrawn.IsPositive():
		row.Amount = withdrawn.Neg()
	default:
		return RawRow{}, false
	}

	if len(cells) > colBalance {
		row.Balance = amount.Parse(cells[colBalance])
	}
	return row, true
}

func parseCompletionTime(s string) (time.Time, bool) {
	for _, layout := range completionLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Date-only fallback for values like "2025-07-01 (pending settlement)".
	if fields := strings.Fields(s); len(fields) > 0 {
		if t, err := time.Parse("2006-01-02", fields[0]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
