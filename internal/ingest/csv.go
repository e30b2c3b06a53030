package ingest

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/pesaflow/pesaflow/internal/common"
)

// statement exports arrive in a handful of encodings depending on what
// produced them. Tried in order; the first that decodes and parses wins.
var csvEncodings = []struct {
	name   string
	decode func([]byte) (string, error)
}{
	{"utf-8", decodeUTF8},
	{"latin-1", decodeCharmapFunc(charmap.ISO8859_1)},
	{"cp1252", decodeCharmapFunc(charmap.Windows1252)},
}

// canonical header names for the recognized column variants.
var headerVariants = map[string]string{
	"completion time":     "timestamp",
	"date":                "timestamp",
	"transaction date":    "timestamp",
	"details":             "description",
	"description":         "description",
	"transaction details": "description",
	"paid in":             "paid_in",
	"withdrawn":           "withdrawn",
	"amount":              "amount",
	"balance":             "balance",
	"receipt no.":         "receipt",
	"receipt no":          "receipt",
	"receipt":             "receipt",
}

// ExtractCSVFile reads a tabular statement export, trying each supported text
// encoding until one yields parseable CSV. Exhausting all encodings is an
// ingestion failure.
func ExtractCSVFile(path string) ([]RawRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	return ExtractCSV(data)
}

// ExtractCSV parses raw CSV bytes into rows.
func ExtractCSV(data []byte) ([]RawRow, error) {
	var records [][]string
	decoded := false

	for _, enc := range csvEncodings {
		text, err := enc.decode(data)
		if err != nil {
			continue
		}
		reader := csv.NewReader(strings.NewReader(text))
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		recs, err := reader.ReadAll()
		if err != nil || len(recs) == 0 {
			continue
		}
		slog.Debug("decoded statement", "encoding", enc.name, "rows", len(recs))
		records = recs
		decoded = true
		break
	}

	if !decoded {
		return nil, common.ErrNoDecodableEncoding
	}

	columns := canonicalColumns(records[0])
	if columns["timestamp"] < 0 || columns["description"] < 0 {
		return nil, common.ErrNoTransactions
	}

	var rows []RawRow
	for _, record := range records[1:] {
		row, ok := rowFromRecord(record, columns)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, common.ErrNoTransactions
	}
	return rows, nil
}

// canonicalColumns lower-cases and trims header names and resolves recognized
// variants to canonical field indexes. Missing fields map to -1.
func canonicalColumns(header []string) map[string]int {
	columns := map[string]int{
		"timestamp": -1, "description": -1, "paid_in": -1,
		"withdrawn": -1, "amount": -1, "balance": -1, "receipt": -1,
	}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := headerVariants[key]; ok && columns[canonical] < 0 {
			columns[canonical] = i
		}
	}
	return columns
}

func rowFromRecord(record []string, columns map[string]int) (RawRow, bool) {
	field := func(name string) string {
		idx := columns[name]
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := RawRow{
		RawWhen:      field("timestamp"),
		Description:  field("description"),
		ReceiptID:    field("receipt"),
		RawBalance:   field("balance"),
		RawPaidIn:    field("paid_in"),
		RawWithdrawn: field("withdrawn"),
		RawAmount:    field("amount"),
	}

	if row.RawWhen == "" || row.Description == "" {
		return RawRow{}, false
	}
	if row.RawAmount == "" && row.RawPaidIn == "" && row.RawWithdrawn == "" {
		return RawRow{}, false
	}
	return row, true
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("invalid utf-8")
	}
	return string(data), nil
}

func decodeCharmapFunc(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		return cm.NewDecoder().String(string(data))
	}
}
