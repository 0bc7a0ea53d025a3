package xlsx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"goodsin/internal/parser"
	"goodsin/internal/port"
)

func workbookBytes(t *testing.T, cells map[string]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for ref, val := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", ref, val))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParse_HeaderNotOnFirstRow(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{
		"A1": "Doc No", "B1": "ML-00321",
		"A2": "Date", "B2": "2026-03-14",
		"A4": "Item Code", "B4": "Item Name", "C4": "Unit", "D4": "Qty", "E4": "Unit Price", "F4": "Total",
		"A5": "ML-00321", "B5": "Tomatoes", "C5": "kg", "D5": "10", "E5": "2", "F5": "20",
		"B6": "Olive Oil", "C6": "btl", "D6": "2", "E6": "15",
	})

	doc, err := NewParser().Parse(context.Background(), port.ParseInput{FileBytes: data, FileName: "delivery.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, "ML-00321", doc.DocumentNumber)
	require.NotNil(t, doc.DocumentDate)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), *doc.DocumentDate)

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "ML-00321", doc.Lines[0].ItemCode)
	assert.Equal(t, "Tomatoes", doc.Lines[0].ItemName)
	assert.Equal(t, 10.0, doc.Lines[0].Quantity)
	assert.Equal(t, 20.0, doc.Lines[0].PriceTotal)

	// Missing total is derived from qty and unit price.
	assert.Equal(t, 30.0, doc.Lines[1].PriceTotal)
}

func TestParse_DocumentNumberFallsBackToFileName(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{
		"A1": "Description", "B1": "Quantity",
		"A2": "Napkins", "B2": "4",
	})

	doc, err := NewParser().Parse(context.Background(), port.ParseInput{FileBytes: data, FileName: "RQ-00044.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "RQ-00044", doc.DocumentNumber)
	assert.Nil(t, doc.DocumentDate)
}

func TestParse_ThousandsSeparators(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{
		"A1": "Item Name", "B1": "Qty", "C1": "Total",
		"A2": "Saffron", "B2": "2", "C2": "1,250.50",
	})

	doc, err := NewParser().Parse(context.Background(), port.ParseInput{FileBytes: data, FileName: "x.xlsx"})
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, 1250.50, doc.Lines[0].PriceTotal)
}

func TestParse_SkipsRowsWithoutNameOrCode(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{
		"A1": "Item Name", "B1": "Qty",
		"A2": "Tomatoes", "B2": "10",
		"B3": "5",
		"A4": "Subtotal",
	})

	doc, err := NewParser().Parse(context.Background(), port.ParseInput{FileBytes: data, FileName: "x.xlsx"})
	require.NoError(t, err)
	// The bare-quantity row drops out; the label row has a name so it stays.
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "Tomatoes", doc.Lines[0].ItemName)
	assert.Equal(t, "Subtotal", doc.Lines[1].ItemName)
}

func TestParse_NoHeaderRow(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{
		"A1": "just", "B1": "noise",
	})

	_, err := NewParser().Parse(context.Background(), port.ParseInput{FileBytes: data, FileName: "x.xlsx"})
	assert.ErrorIs(t, err, parser.ErrNoItems)
}

func TestParse_HeaderWithoutDataRows(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{
		"A1": "Item Name", "B1": "Qty",
	})

	_, err := NewParser().Parse(context.Background(), port.ParseInput{FileBytes: data, FileName: "x.xlsx"})
	assert.ErrorIs(t, err, parser.ErrNoItems)
}

func TestParse_UnreadableBytes(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), port.ParseInput{FileBytes: []byte("not a workbook"), FileName: "x.xlsx"})
	assert.ErrorIs(t, err, parser.ErrUnreadable)
}
