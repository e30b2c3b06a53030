package ingest

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pesaflow/pesaflow/internal/common"
)

// cellGap is the horizontal distance (in PDF points) between two words that
// marks a column boundary when reconstructing table cells.
const cellGap = 10.0

// Line is one visual row of a PDF page: the full text, plus the same words
// grouped into cells on large horizontal gaps.
type Line struct {
	Text  string
	Cells []string
}

// Page is the extracted content of one PDF page.
type Page struct {
	Lines []Line
}

// ExtractPDFFile extracts transaction rows from a PDF statement. Each page is
// scanned for a detailed-statement table and, independently, free-text
// transaction lines. Finding zero transactions across all pages is an
// ingestion failure.
func ExtractPDFFile(path string, opts Options) ([]RawRow, error) {
	pages, err := readPDFPages(path)
	if err != nil {
		return nil, err
	}

	var rows []RawRow
	for i, page := range pages {
		rows = append(rows, extractPage(page)...)
		if opts.Progress != nil {
			opts.Progress(i+1, len(pages))
		}
	}

	if len(rows) == 0 {
		return nil, common.ErrNoTransactions
	}
	return rows, nil
}

// extractPage runs the table grammar first. Lines consumed by a detected
// table are excluded from the text-line pass so no source line is emitted
// twice through multiple grammars.
func extractPage(page Page) []RawRow {
	rows, tableStart := extractTable(page.Lines)

	textLines := page.Lines
	if tableStart >= 0 {
		textLines = page.Lines[:tableStart]
	}
	for _, line := range textLines {
		if row, ok := matchTransactionLine(line.Text); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// readPDFPages reads each page's text rows. The pdf library panics on some
// malformed files, so the whole read is wrapped in a recover guard.
func readPDFPages(path string) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, common.ErrNoTransactions
	}

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			continue
		}

		var lines []Line
		for _, row := range rows {
			line := lineFromRow(row)
			if line.Text != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, Page{Lines: lines})
	}
	return pages, nil
}

// lineFromRow joins a row's words into display text and groups them into
// cells wherever the horizontal gap between words exceeds cellGap.
func lineFromRow(row *pdf.Row) Line {
	var parts []string
	var cells []string
	var cell strings.Builder
	prevEnd := 0.0

	for i, word := range row.Content {
		text := strings.TrimSpace(word.S)
		if text == "" {
			continue
		}
		parts = append(parts, text)

		if i > 0 && word.X-prevEnd > cellGap && cell.Len() > 0 {
			cells = append(cells, cell.String())
			cell.Reset()
		}
		if cell.Len() > 0 {
			cell.WriteByte(' ')
		}
		cell.WriteString(text)

		end := word.X + word.W
		if end < word.X {
			end = word.X
		}
		prevEnd = end
	}
	if cell.Len() > 0 {
		cells = append(cells, cell.String())
	}

	return Line{
		Text:  strings.Join(parts, " "),
		Cells: cells,
	}
}
