package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodsin/internal/domain"
	"goodsin/internal/service"
)

func sampleReport() *service.ReceivingReport {
	return &service.ReceivingReport{
		DocumentNumber: "ML-00321",
		GeneratedAt:    time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		Received: []domain.ReceivingLine{
			{
				ItemCode:     "ML-00321",
				ItemName:     "Tomatoes",
				Unit:         "kg",
				Quantity:     8,
				PricePerUnit: 2,
				PriceTotal:   16,
				DocumentType: domain.DocumentTypeMarket,
				IsReceived:   true,
				MatchedInPO:  true,
			},
		},
		Excluded: []domain.ReceivingLine{
			{
				ItemName:     "Napkins",
				Unit:         "pk",
				Quantity:     4,
				PricePerUnit: 3,
				PriceTotal:   12,
				DocumentType: domain.DocumentTypeMaterial,
			},
		},
		Stats: domain.ReceivingStats{
			Placed:        2,
			Received:      1,
			Excluded:      1,
			Unmatched:     1,
			ReceivedValue: 16,
			ExcludedValue: 12,
			TotalValue:    28,
		},
	}
}

func TestWriteReport_Layout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteReport(sampleReport()))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	// Blank spacer lines are skipped by the reader.
	require.Len(t, rows, 16)
	assert.Equal(t, []string{"Receiving Report", "ML-00321"}, rows[0])
	assert.Equal(t, []string{"Generated At", "2026-03-15 10:30:00"}, rows[1])

	assert.Equal(t, []string{"Received Lines"}, rows[2])
	assert.Equal(t, lineColumns, rows[3])
	assert.Equal(t, []string{"ML-00321", "Tomatoes", "kg", "8.00", "2.00", "16.00", "market", "Yes"}, rows[4])

	assert.Equal(t, []string{"Excluded Lines"}, rows[5])
	assert.Equal(t, lineColumns, rows[6])
	assert.Equal(t, []string{"", "Napkins", "pk", "4.00", "3.00", "12.00", "material", "No"}, rows[7])

	assert.Equal(t, []string{"Summary"}, rows[8])
	assert.Equal(t, []string{"Lines Placed", "2"}, rows[9])
	assert.Equal(t, []string{"Lines Received", "1"}, rows[10])
	assert.Equal(t, []string{"Lines Excluded", "1"}, rows[11])
	assert.Equal(t, []string{"Lines Unmatched", "1"}, rows[12])
	assert.Equal(t, []string{"Received Value", "16.00"}, rows[13])
	assert.Equal(t, []string{"Excluded Value", "12.00"}, rows[14])
	assert.Equal(t, []string{"Total Value", "28.00"}, rows[15])
}

func TestWriteReport_EmptyTables(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteReport(&service.ReceivingReport{
		DocumentNumber: "RQ-00007",
		GeneratedAt:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	// Tables still appear with headers; only the data rows are absent.
	assert.Equal(t, []string{"Received Lines"}, rows[2])
	assert.Equal(t, lineColumns, rows[3])
	assert.Equal(t, []string{"Excluded Lines"}, rows[4])
	assert.Equal(t, lineColumns, rows[5])
	assert.Equal(t, []string{"Summary"}, rows[6])
}
