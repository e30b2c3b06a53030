// Package ingest extracts raw transaction rows from statement exports.
//
// Two paths feed the same row model: CSV exports (header-variant tabular
// files) and PDF statements (a detailed-statement table, free-text
// transaction lines, or both). Individual unparseable rows are dropped
// silently; only a statement yielding zero rows is an error.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesaflow/pesaflow/internal/common"
	"github.com/pesaflow/pesaflow/internal/model"
)

// RawRow is one extracted field tuple, before normalization. The PDF path
// fills the typed fields; the CSV path leaves strings for the normalizer to
// coerce.
type RawRow struct {
	When         time.Time // zero when only RawWhen is available
	RawWhen      string
	Description  string
	ReceiptID    string
	Type         model.TransactionType // empty when not yet classified
	Amount       decimal.Decimal
	Balance      decimal.Decimal
	RawAmount    string
	RawPaidIn    string
	RawWithdrawn string
	RawBalance   string
}

// Options configures extraction.
type Options struct {
	// Progress, when set, is invoked after each processed PDF page.
	Progress func(page, total int)
}

// ExtractFile dispatches on file extension. Only .csv and .pdf statements are
// supported.
func ExtractFile(path string, opts Options) ([]RawRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ExtractCSVFile(path)
	case ".pdf":
		return ExtractPDFFile(path, opts)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, filepath.Ext(path))
	}
}
