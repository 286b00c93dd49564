package exporter

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cargolens/internal/dataprocessing"
	"cargolens/internal/shared/testutil"
	"cargolens/pkg/contracts/domain"
)

func floatPtr(f float64) *float64 { return &f }

func stringPtr(s string) *string { return &s }

// reportDataset builds a two-record dataset the way the pipeline leaves
// it: one fully populated row and one with a synthesizable gap profile
// (no date, no bill, no quantity).
func reportDataset() *domain.Dataset {
	date := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	return &domain.Dataset{
		Columns: []string{
			dataprocessing.ColumnImporter,
			dataprocessing.ColumnDate,
			dataprocessing.ColumnBill,
			dataprocessing.ColumnQuantity,
			dataprocessing.ColumnValue,
			dataprocessing.ColumnUnitPrice,
			dataprocessing.ColumnDescription,
			"TEU",
		},
		Records: []domain.ShipmentRecord{
			{
				SourceFile: "a.xlsx",
				Raw: map[string]string{
					dataprocessing.ColumnValue:       "500",
					dataprocessing.ColumnUnitPrice:   "5",
					dataprocessing.ColumnDescription: "Steel Bolts",
					"TEU":                            "2",
				},
				Importer:           "ACME CORP",
				NormalizedImporter: "ACME CORP",
				Date:               &date,
				MonthDay:           stringPtr("JANUARY05"),
				MasterBillNumber:   stringPtr("MB1"),
				ContainerName:      "MB1",
				Quantity:           floatPtr(100),
				ValueUSD:           floatPtr(500),
				UnitPriceUSD:       floatPtr(5),
			},
			{
				SourceFile: "b.xlsx",
				Raw: map[string]string{
					dataprocessing.ColumnValue:       "1,250",
					dataprocessing.ColumnDescription: "Textiles",
				},
				Importer:           "GLOBEX INC",
				NormalizedImporter: "GLOBEX INC",
				ContainerName:      "nan",
				ValueUSD:           floatPtr(1250),
			},
		},
	}
}

func reportAggregates() *domain.AggregateSet {
	return &domain.AggregateSet{
		ProductsPerContainer: []domain.ContainerProducts{
			{ContainerName: "MB1", TotalProducts: 1, Products: []string{"Steel Bolts"}},
			{ContainerName: "nan", TotalProducts: 1, Products: []string{"Textiles"}},
		},
		WeightPerProduct: []domain.ProductWeight{
			{ContainerName: "MB1", Description: "Steel Bolts", WeightKgs: 100},
			{ContainerName: "nan", Description: "Textiles", WeightKgs: 0},
		},
		ShipmentCostPerContainer: []domain.ContainerCost{
			{ContainerName: "MB1", TotalShipmentCostUSD: 500},
			{ContainerName: "nan", TotalShipmentCostUSD: 1250},
		},
		TotalValuePerImporter: []domain.ImporterValue{
			{Importer: "ACME CORP", TotalValueUSD: 500},
			{Importer: "GLOBEX INC", TotalValueUSD: 1250},
		},
	}
}

func openReport(t *testing.T, artifact []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(artifact))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestNewReportWriter(t *testing.T) {
	w := NewReportWriter(nil)
	require.NotNil(t, w)
	assert.NotNil(t, w.logger)
}

func TestReportWriter_Write_SheetOrder(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	w := NewReportWriter(logger)

	artifact, err := w.Write(context.Background(), reportDataset(), reportAggregates())
	require.NoError(t, err)
	require.NotEmpty(t, artifact)

	f := openReport(t, artifact)
	assert.Equal(t, []string{
		SheetCleanedData,
		SheetProductsPerContainer,
		SheetWeightPerProduct,
		SheetShipmentCost,
		SheetTotalValuePerImporter,
	}, f.GetSheetList())

	testutil.AssertLogAttr(t, handler, "sheets", int64(5))
}

func TestReportWriter_Write_CleanedData(t *testing.T) {
	w := NewReportWriter(nil)

	artifact, err := w.Write(context.Background(), reportDataset(), reportAggregates())
	require.NoError(t, err)
	f := openReport(t, artifact)

	rows, err := f.GetRows(SheetCleanedData)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Importer", "Date", "Master Bill Number", "Quantity", "Value(USD)",
		"Unit Price(USD)", "Description",
		"source_file", "Normalized_Importer", "Date_str",
		"Unique Master Bill Number", "Container Name",
		"Weight (kgs)", "Value (USD)", "Unit Price (USD)", "Shipment Cost",
	}, rows[0], "TEU is excluded, derived columns appended in order")

	// Sorted descending by Weight (kgs), the first keyword-named numeric
	// column; the row without a weight comes last.
	assert.Equal(t, []string{
		"ACME CORP", "2024-01-05", "MB1", "100", "500", "5", "Steel Bolts",
		"a.xlsx", "ACME CORP", "JANUARY05", "MB1", "MB1", "100", "500", "5", "500",
	}, rows[1])
	assert.Equal(t, []string{
		"GLOBEX INC", "", "", "", "1,250", "", "Textiles",
		"b.xlsx", "GLOBEX INC", "", "nan", "nan", "", "1,250", "", "1,250",
	}, rows[2], "raw Value(USD) text passes through while derived Value (USD) is numeric")
}

func TestReportWriter_Write_CleanedDataStyling(t *testing.T) {
	w := NewReportWriter(nil)

	artifact, err := w.Write(context.Background(), reportDataset(), reportAggregates())
	require.NoError(t, err)
	f := openReport(t, artifact)

	styleID, err := f.GetCellStyle(SheetCleanedData, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold, "header row is bold")

	panes, err := f.GetPanes(SheetCleanedData)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit, "header row is frozen")

	// Date column: max(len("2024-01-05"), len("Date")) + 5, plus the date
	// extra padding.
	width, err := f.GetColWidth(SheetCleanedData, "B")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, width, 0.01)

	// Importer column: longest cell "GLOBEX INC" wins over the header.
	width, err = f.GetColWidth(SheetCleanedData, "A")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, width, 0.01)
}

func TestReportWriter_Write_AggregateSheets(t *testing.T) {
	w := NewReportWriter(nil)

	artifact, err := w.Write(context.Background(), reportDataset(), reportAggregates())
	require.NoError(t, err)
	f := openReport(t, artifact)

	t.Run("shipment cost sorted descending", func(t *testing.T) {
		rows, err := f.GetRows(SheetShipmentCost)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Container Name", "Total Shipment Cost (USD)"}, rows[0])
		assert.Equal(t, []string{"nan", "1,250"}, rows[1])
		assert.Equal(t, []string{"MB1", "500"}, rows[2])
	})

	t.Run("importer value sorted descending", func(t *testing.T) {
		rows, err := f.GetRows(SheetTotalValuePerImporter)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Importer", "Total Value(USD) per Importer"}, rows[0])
		assert.Equal(t, []string{"GLOBEX INC", "1,250"}, rows[1])
		assert.Equal(t, []string{"ACME CORP", "500"}, rows[2])
	})

	t.Run("weight sorted descending", func(t *testing.T) {
		rows, err := f.GetRows(SheetWeightPerProduct)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"MB1", "Steel Bolts", "100"}, rows[1])
		assert.Equal(t, []string{"nan", "Textiles", "0"}, rows[2])
	})

	t.Run("products keep aggregate order", func(t *testing.T) {
		rows, err := f.GetRows(SheetProductsPerContainer)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Container Name", "Total Products in Container", "Products List"}, rows[0])
		assert.Equal(t, []string{"MB1", "1", "Steel Bolts"}, rows[1])
		assert.Equal(t, []string{"nan", "1", "Textiles"}, rows[2])
	})
}

func TestReportWriter_Write_EmptyTables(t *testing.T) {
	w := NewReportWriter(nil)

	artifact, err := w.Write(context.Background(), &domain.Dataset{}, &domain.AggregateSet{})
	require.NoError(t, err)
	f := openReport(t, artifact)

	require.Len(t, f.GetSheetList(), 5)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		assert.Len(t, rows, 1, "sheet %q should carry its header only", sheet)
	}
}

func TestHasSortKeyword(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "Total Shipment Cost (USD)", want: true},
		{name: "Weight (kgs)", want: true},
		{name: "Value(USD)", want: true},
		{name: "Total Value(USD) per Importer", want: true},
		{name: "Quantity", want: false},
		{name: "Unit Price (USD)", want: false},
		{name: "Description", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasSortKeyword(tt.name))
		})
	}
}

func TestSortColumn_SkipsTextKeywordColumns(t *testing.T) {
	columns := []column{
		{name: "Value(USD)", kind: kindText},
		{name: "Quantity", kind: kindNumber},
		{name: "Weight (kgs)", kind: kindNumber},
	}
	assert.Equal(t, 2, sortColumn(columns),
		"a keyword column only qualifies when numeric")
}

func TestColumnWidth_AllBlankColumn(t *testing.T) {
	col := column{name: "Notes", kind: kindText}
	rows := [][]any{{nil}, {nil}}
	assert.InDelta(t, 15.0, columnWidth(col, rows, 0), 0.01,
		"blank columns use the base width of 10 before padding")
}
