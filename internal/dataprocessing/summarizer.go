package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"cargolens/pkg/contracts/domain"
)

// Summarizer builds the four aggregate tables of an analysis run. Each
// table is a fresh reduction over the derived records with no reference
// back to row-level data, sorted ascending by its group key(s); the report
// writer applies its own display sort on top.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer logging aggregate counts to the given
// logger.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Aggregate reduces the records into the four aggregate tables.
func (s *Summarizer) Aggregate(ctx context.Context, records []domain.ShipmentRecord) *domain.AggregateSet {
	set := &domain.AggregateSet{
		ProductsPerContainer:     s.productsPerContainer(records),
		WeightPerProduct:         s.weightPerProduct(records),
		ShipmentCostPerContainer: s.shipmentCostPerContainer(records),
		TotalValuePerImporter:    s.totalValuePerImporter(records),
	}

	s.logger.InfoContext(ctx, "aggregates computed",
		slog.Int("records", len(records)),
		slog.Int("containers", len(set.ShipmentCostPerContainer)),
		slog.Int("product_weight_rows", len(set.WeightPerProduct)),
		slog.Int("importers", len(set.TotalValuePerImporter)))

	return set
}

// productsPerContainer collects each container's distinct product
// descriptions in first-seen order plus their count. Blank descriptions
// are not collected; a container whose rows are all blank still appears,
// with an empty list.
func (s *Summarizer) productsPerContainer(records []domain.ShipmentRecord) []domain.ContainerProducts {
	index := make(map[string]int)
	seen := make(map[string]map[string]struct{})
	rows := make([]domain.ContainerProducts, 0)

	for _, record := range records {
		key := record.ContainerName
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			seen[key] = make(map[string]struct{})
			rows = append(rows, domain.ContainerProducts{
				ContainerName: key,
				Products:      []string{},
			})
		}

		description := record.Cell(ColumnDescription)
		if description == "" {
			continue
		}
		if _, dup := seen[key][description]; dup {
			continue
		}
		seen[key][description] = struct{}{}
		rows[i].Products = append(rows[i].Products, description)
	}

	for i := range rows {
		rows[i].TotalProducts = len(rows[i].Products)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ContainerName < rows[j].ContainerName
	})
	return rows
}

// weightPerProduct sums Weight (kgs) by (container, description). Rows
// with a blank description are excluded; nil weights contribute zero.
func (s *Summarizer) weightPerProduct(records []domain.ShipmentRecord) []domain.ProductWeight {
	type groupKey struct {
		container   string
		description string
	}
	sums := make(map[groupKey]float64)

	for _, record := range records {
		description := record.Cell(ColumnDescription)
		if description == "" {
			continue
		}
		key := groupKey{container: record.ContainerName, description: description}
		sums[key] += floatOrZero(record.WeightKgs())
	}

	rows := make([]domain.ProductWeight, 0, len(sums))
	for key, sum := range sums {
		rows = append(rows, domain.ProductWeight{
			ContainerName: key.container,
			Description:   key.description,
			WeightKgs:     sum,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ContainerName != rows[j].ContainerName {
			return rows[i].ContainerName < rows[j].ContainerName
		}
		return rows[i].Description < rows[j].Description
	})
	return rows
}

// shipmentCostPerContainer sums shipment cost by container; nil costs
// contribute zero.
func (s *Summarizer) shipmentCostPerContainer(records []domain.ShipmentRecord) []domain.ContainerCost {
	sums := make(map[string]float64)
	for _, record := range records {
		sums[record.ContainerName] += floatOrZero(record.ShipmentCostUSD())
	}

	rows := make([]domain.ContainerCost, 0, len(sums))
	for container, sum := range sums {
		rows = append(rows, domain.ContainerCost{
			ContainerName:        container,
			TotalShipmentCostUSD: sum,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ContainerName < rows[j].ContainerName
	})
	return rows
}

// totalValuePerImporter sums declared value by canonical importer label;
// nil values contribute zero. Records with a blank importer aggregate
// under the empty label.
func (s *Summarizer) totalValuePerImporter(records []domain.ShipmentRecord) []domain.ImporterValue {
	sums := make(map[string]float64)
	for _, record := range records {
		sums[record.NormalizedImporter] += floatOrZero(record.ValueUSD)
	}

	rows := make([]domain.ImporterValue, 0, len(sums))
	for importer, sum := range sums {
		rows = append(rows, domain.ImporterValue{
			Importer:      importer,
			TotalValueUSD: sum,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Importer < rows[j].Importer
	})
	return rows
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
