package ingest

import (
	"regexp"
	"strings"
	"time"

	"github.com/pesaflow/pesaflow/internal/amount"
	"github.com/pesaflow/pesaflow/internal/classification"
	"github.com/pesaflow/pesaflow/internal/model"
)

// minLineLength filters out page furniture before grammar matching.
const minLineLength = 10

// amountToken matches an amount with optional currency label, sign markers
// and thousands separators, e.g. "KSh 1,234.50", "(500.00)", "250.00 DR".
const amountToken = `(?:KSh\s*|KES\s*)?[-(]?[\d,]+\.\d{2}\)?(?:\s*[CD]R)?`

// receiptToken matches statement receipt codes like "SFC3K1XQ2P".
const receiptToken = `[A-Z0-9][A-Z0-9-]{5,11}`

// lineTemplate is one grammar for a free-text transaction line. Templates are
// tried most-specific first and the first match wins; later templates are not
// consulted for a matched line.
type lineTemplate struct {
	re    *regexp.Regexp
	parse func(groups []string) (RawRow, bool)
}

var lineTemplates = []lineTemplate{
	// Full: date time receipt details amount [balance]
	{
		re: regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AP]M)?)\s+(` + receiptToken + `)\s+(.*?)\s+(` + amountToken + `)(?:\s+(` + amountToken + `))?\s*$`),
		parse: func(g []string) (RawRow, bool) {
			return buildTextRow(g[1], g[2], g[3], g[4], g[5], g[6])
		},
	},
	// Date receipt details amount [balance]
	{
		re: regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(` + receiptToken + `)\s+(.*?)\s+(` + amountToken + `)(?:\s+(` + amountToken + `))?\s*$`),
		parse: func(g []string) (RawRow, bool) {
			return buildTextRow(g[1], "", g[2], g[3], g[4], g[5])
		},
	},
	// Minimal: date details amount
	{
		re: regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(.*?)\s+(` + amountToken + `)\s*$`),
		parse: func(g []string) (RawRow, bool) {
			return buildTextRow(g[1], "", "", g[2], g[3], "")
		},
	},
	// Fallback: any date followed by details and a plausible amount
	{
		re: regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s+(.*?)\s*(?:KSh\s*|KES\s*)?([-(]?\d[\d,]*\.\d{2}\)?)`),
		parse: func(g []string) (RawRow, bool) {
			return buildTextRow(g[1], "", "", g[2], g[3], "")
		},
	},
}

// matchTransactionLine attempts each line grammar in priority order.
func matchTransactionLine(line string) (RawRow, bool) {
	line = strings.TrimSpace(line)
	if len(line) < minLineLength {
		return RawRow{}, false
	}

	for _, tmpl := range lineTemplates {
		groups := tmpl.re.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		// Pad optional trailing groups so parse funcs can index uniformly.
		for len(groups) < 7 {
			groups = append(groups, "")
		}
		if row, ok := tmpl.parse(groups); ok {
			return row, true
		}
		// A matched grammar consumes the line even when the row is unusable.
		return RawRow{}, false
	}
	return RawRow{}, false
}

func buildTextRow(dateStr, timeStr, receipt, details, amountStr, balanceStr string) (RawRow, bool) {
	when, ok := parseStatementDate(dateStr, timeStr)
	if !ok {
		return RawRow{}, false
	}

	details = strings.TrimSpace(details)
	amt := amount.Parse(amountStr)
	if details == "" || amt.IsZero() {
		return RawRow{}, false
	}

	txType := classification.ClassifyType(details)

	// The source gave no sign marker; infer one from the transaction type.
	if !amount.HasExplicitSign(amountStr) && model.IsOutflowType(txType) {
		amt = amt.Abs().Neg()
	}

	row := RawRow{
		When:        when,
		Description: details,
		ReceiptID:   strings.TrimSpace(receipt),
		Type:        txType,
		Amount:      amt,
	}
	if balanceStr != "" {
		row.Balance = amount.Parse(balanceStr)
	}
	return row, true
}

// parseStatementDate parses day-first statement dates with an optional
// 24-hour or AM/PM time component.
func parseStatementDate(dateStr, timeStr string) (time.Time, bool) {
	if timeStr == "" {
		t, err := time.Parse("2/1/2006", dateStr)
		return t, err == nil
	}

	normalized := strings.ToUpper(strings.ReplaceAll(timeStr, " ", ""))
	layouts := []string{"2/1/2006 3:04PM", "2/1/2006 3:04:05PM", "2/1/2006 15:04", "2/1/2006 15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr+" "+normalized); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
