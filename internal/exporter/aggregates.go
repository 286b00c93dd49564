package exporter

import (
	"fmt"
	"strings"

	"cargolens/internal/config"
	"cargolens/pkg/contracts/domain"
)

// Aggregate CSV file names, one per aggregate table.
const (
	FileProductsPerContainer  = "products_per_container.csv"
	FileWeightPerProduct      = "weight_per_product.csv"
	FileShipmentCost          = "shipment_cost_per_container.csv"
	FileTotalValuePerImporter = "total_value_per_importer.csv"
)

// AggregateExporter writes the four aggregate tables as CSV files
type AggregateExporter struct {
	csvWriter *CSVWriter
}

// NewAggregateExporter creates a new aggregate CSV exporter
func NewAggregateExporter(paths *config.Paths) *AggregateExporter {
	return &AggregateExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportAggregates writes one CSV file per aggregate table into the
// reports directory and returns the file names written. Column headers
// match the workbook sheets; rows keep the ascending group-key order of
// the aggregates.
func (e *AggregateExporter) ExportAggregates(set *domain.AggregateSet) ([]string, error) {
	files := []struct {
		name    string
		headers []string
		records [][]string
	}{
		{
			name:    FileProductsPerContainer,
			headers: []string{"Container Name", "Total Products in Container", "Products List"},
			records: productsCSVRows(set.ProductsPerContainer),
		},
		{
			name:    FileWeightPerProduct,
			headers: []string{"Container Name", "Description", "Weight (kgs)"},
			records: weightCSVRows(set.WeightPerProduct),
		},
		{
			name:    FileShipmentCost,
			headers: []string{"Container Name", "Total Shipment Cost (USD)"},
			records: costCSVRows(set.ShipmentCostPerContainer),
		},
		{
			name:    FileTotalValuePerImporter,
			headers: []string{"Importer", "Total Value(USD) per Importer"},
			records: valueCSVRows(set.TotalValuePerImporter),
		},
	}

	written := make([]string, 0, len(files))
	for _, file := range files {
		if err := e.csvWriter.WriteSimpleCSV(file.name, file.headers, file.records); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", file.name, err)
		}
		written = append(written, file.name)
	}
	return written, nil
}

func productsCSVRows(rows []domain.ContainerProducts) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.ContainerName,
			formatInt(int64(row.TotalProducts)),
			strings.Join(row.Products, ", "),
		})
	}
	return out
}

func weightCSVRows(rows []domain.ProductWeight) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.ContainerName,
			row.Description,
			formatFloat(row.WeightKgs),
		})
	}
	return out
}

func costCSVRows(rows []domain.ContainerCost) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.ContainerName,
			formatFloat(row.TotalShipmentCostUSD),
		})
	}
	return out
}

func valueCSVRows(rows []domain.ImporterValue) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.Importer,
			formatFloat(row.TotalValueUSD),
		})
	}
	return out
}
