// Package xlsx parses supplier goods-in spreadsheets into receiving lines.
// Supplier sheets vary in layout, so the parser locates the header row by
// its column labels instead of assuming fixed positions.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"goodsin/internal/domain"
	"goodsin/internal/parser"
	"goodsin/internal/port"
)

// headerScanLimit caps how deep we look for the header row.
const headerScanLimit = 15

// columnIndex maps the located header columns. -1 means absent.
type columnIndex struct {
	code, name, unit, qty, unitPrice, total int
}

type xlsxParser struct{}

// NewParser creates the excelize-backed DocumentParser.
func NewParser() port.DocumentParser {
	return &xlsxParser{}
}

func (p *xlsxParser) Parse(ctx context.Context, input port.ParseInput) (*domain.ParsedDocument, error) {
	f, err := excelize.OpenReader(bytes.NewReader(input.FileBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", parser.ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parser.ErrNoItems
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", parser.ErrUnreadable, err)
	}

	doc := &domain.ParsedDocument{
		DocumentNumber: documentNumber(rows, input.FileName),
		DocumentDate:   documentDate(rows),
	}

	headerRow, cols := findHeader(rows)
	if headerRow < 0 {
		return nil, parser.ErrNoItems
	}

	for _, row := range rows[headerRow+1:] {
		line, ok := parseRow(row, cols)
		if !ok {
			continue
		}
		doc.Lines = append(doc.Lines, line)
	}
	if len(doc.Lines) == 0 {
		return nil, parser.ErrNoItems
	}
	return doc, nil
}

// findHeader scans the top of the sheet for a row that names both an item
// column and a quantity column.
func findHeader(rows [][]string) (int, columnIndex) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		cols := columnIndex{code: -1, name: -1, unit: -1, qty: -1, unitPrice: -1, total: -1}
		for j, cell := range rows[i] {
			switch label := strings.ToLower(strings.TrimSpace(cell)); {
			case labelIs(label, "item code", "code", "sku", "article", "stock code"):
				cols.code = j
			case labelIs(label, "item name", "item", "name", "description", "product"):
				cols.name = j
			case labelIs(label, "unit", "uom"):
				cols.unit = j
			case labelIs(label, "qty", "quantity"):
				cols.qty = j
			case labelIs(label, "unit price", "price", "price/unit", "rate"):
				cols.unitPrice = j
			case labelIs(label, "total", "amount", "line total"):
				cols.total = j
			}
		}
		if cols.name >= 0 && cols.qty >= 0 {
			return i, cols
		}
	}
	return -1, columnIndex{}
}

func labelIs(label string, candidates ...string) bool {
	for _, c := range candidates {
		if label == c {
			return true
		}
	}
	return false
}

func parseRow(row []string, cols columnIndex) (domain.ParsedLine, bool) {
	line := domain.ParsedLine{
		ItemCode: cellAt(row, cols.code),
		ItemName: cellAt(row, cols.name),
		Unit:     cellAt(row, cols.unit),
	}
	if line.ItemName == "" && line.ItemCode == "" {
		return line, false
	}
	line.Quantity = cellFloat(row, cols.qty)
	line.PricePerUnit = cellFloat(row, cols.unitPrice)
	line.PriceTotal = cellFloat(row, cols.total)
	if line.PriceTotal == 0 && line.Quantity > 0 && line.PricePerUnit > 0 {
		line.PriceTotal = line.Quantity * line.PricePerUnit
	}
	return line, true
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellFloat(row []string, idx int) float64 {
	s := cellAt(row, idx)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// documentNumber looks for a labelled "doc no" cell in the sheet head and
// falls back to the file name without extension.
func documentNumber(rows [][]string, fileName string) string {
	if v := labelledValue(rows, "doc no", "document no", "document number", "ref", "reference"); v != "" {
		return v
	}
	name := fileName
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

func documentDate(rows [][]string) *time.Time {
	v := labelledValue(rows, "date", "doc date", "document date", "delivery date")
	if v == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006", "01-02-06", "2/1/2006", "02.01.2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// labelledValue finds "Label: value" pairs laid out as adjacent cells in the
// sheet head.
func labelledValue(rows [][]string, labels ...string) string {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		for j, cell := range rows[i] {
			label := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(cell), ":"))
			if !labelIs(label, labels...) {
				continue
			}
			if v := cellAt(rows[i], j+1); v != "" {
				return v
			}
		}
	}
	return ""
}
