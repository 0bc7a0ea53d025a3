// Package csvexport renders a receiving session report as CSV: a received
// table, an excluded table, and the aggregate totals. The layout is derivable
// purely from the final line states and stats.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"

	"goodsin/internal/domain"
	"goodsin/internal/service"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var lineColumns = []string{
	"Item Code",
	"Item Name",
	"Unit",
	"Quantity",
	"Unit Price",
	"Line Total",
	"Document Type",
	"Matched In PO",
}

// Writer renders receiving reports as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteReport writes the full two-table report with aggregates.
func (w *Writer) WriteReport(report *service.ReceivingReport) error {
	header := [][]string{
		{"Receiving Report", report.DocumentNumber},
		{"Generated At", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{},
	}
	for _, row := range header {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}

	if err := w.writeLineTable("Received Lines", report.Received); err != nil {
		return err
	}
	if err := w.writeLineTable("Excluded Lines", report.Excluded); err != nil {
		return err
	}

	stats := report.Stats
	summary := [][]string{
		{"Summary"},
		{"Lines Placed", fmt.Sprintf("%d", stats.Placed)},
		{"Lines Received", fmt.Sprintf("%d", stats.Received)},
		{"Lines Excluded", fmt.Sprintf("%d", stats.Excluded)},
		{"Lines Unmatched", fmt.Sprintf("%d", stats.Unmatched)},
		{"Received Value", formatAmount(stats.ReceivedValue)},
		{"Excluded Value", formatAmount(stats.ExcludedValue)},
		{"Total Value", formatAmount(stats.TotalValue)},
	}
	for _, row := range summary {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeLineTable(title string, lines []domain.ReceivingLine) error {
	if err := w.csv.Write([]string{title}); err != nil {
		return err
	}
	if err := w.csv.Write(lineColumns); err != nil {
		return err
	}
	for i := range lines {
		if err := w.csv.Write(lineToRow(&lines[i])); err != nil {
			return err
		}
	}
	return w.csv.Write([]string{})
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func lineToRow(line *domain.ReceivingLine) []string {
	return []string{
		line.ItemCode,
		line.ItemName,
		line.Unit,
		formatAmount(line.Quantity),
		formatAmount(line.PricePerUnit),
		formatAmount(line.PriceTotal),
		string(line.DocumentType),
		formatBool(line.MatchedInPO),
	}
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatBool(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
