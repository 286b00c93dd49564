package domain

import (
	"time"
)

// ContainerProducts lists the distinct products found in one container.
// Products keeps first-seen order; null descriptions are not collected.
type ContainerProducts struct {
	ContainerName string   `json:"container_name" validate:"required"`
	TotalProducts int      `json:"total_products" validate:"min=0"`
	Products      []string `json:"products"`
}

// ProductWeight is the summed weight of one product within one container.
// Rows whose description was null do not appear here.
type ProductWeight struct {
	ContainerName string  `json:"container_name" validate:"required"`
	Description   string  `json:"description" validate:"required"`
	WeightKgs     float64 `json:"weight_kgs"`
}

// ContainerCost is the summed shipment cost of one container.
type ContainerCost struct {
	ContainerName        string  `json:"container_name" validate:"required"`
	TotalShipmentCostUSD float64 `json:"total_shipment_cost_usd"`
}

// ImporterValue is the summed declared value per canonical importer.
type ImporterValue struct {
	Importer      string  `json:"importer" validate:"required"`
	TotalValueUSD float64 `json:"total_value_usd"`
}

// AggregateSet bundles the four derived tables of one analysis run.
// Each slice is sorted ascending by its group key(s); the report writer
// applies its own display sort on top.
type AggregateSet struct {
	ProductsPerContainer     []ContainerProducts `json:"products_per_container"`
	WeightPerProduct         []ProductWeight     `json:"weight_per_product"`
	ShipmentCostPerContainer []ContainerCost     `json:"shipment_cost_per_container"`
	TotalValuePerImporter    []ImporterValue     `json:"total_value_per_importer"`
}

// AnalysisSummary describes the outcome of one run: how the input batch
// fared file by file and what the dataset clustered down to.
type AnalysisSummary struct {
	FilesReceived    int          `json:"files_received"`
	FilesAccepted    int          `json:"files_accepted"`
	FilesSkipped     int          `json:"files_skipped"`
	Records          int          `json:"records"`
	Containers       int          `json:"containers"`
	ImporterNames    int          `json:"importer_names"`
	ImporterClusters int          `json:"importer_clusters"`
	ReportFile       string       `json:"report_file,omitempty"`
	GeneratedAt      time.Time    `json:"generated_at"`
	Files            []FileReport `json:"files"`
}
