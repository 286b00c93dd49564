package domain

import (
	"time"
)

// ShipmentRecord is the Single Source of Truth (SSOT) for one spreadsheet
// line item flowing through the CargoLens pipeline. The ingestor fills the
// raw fields, the normalizer and deriver fill the rest; aggregates and the
// report writer consume it read-only.
//
// Null policy: pointer fields are nil when the source value was blank or
// failed coercion. Coercion failures never drop a record.
type ShipmentRecord struct {
	// === RAW FIELDS (set by the ingestor) ===

	// Raw holds the original cell text keyed by trimmed column name,
	// exactly as read from the source file.
	Raw map[string]string `json:"-"`

	// SourceFile is the name of the file this row came from.
	SourceFile string `json:"source_file" validate:"required"`

	// === DERIVED FIELDS ===

	// Importer is the trimmed, uppercased importer name as it appears
	// in the Cleaned Data sheet. Bill synthesis uses this spelling.
	Importer string `json:"importer"`

	// NormalizedImporter is the canonical cluster label chosen by the
	// name normalizer. Aggregation per importer keys on this value.
	NormalizedImporter string `json:"normalized_importer"`

	// Date is the parsed shipment date; nil when unparsable or blank.
	Date *time.Time `json:"date,omitempty"`

	// MonthDay renders Date as uppercased month name plus zero-padded
	// day ("JANUARY05"); nil when Date is nil. Appears in the Cleaned
	// Data sheet as Date_str and feeds bill synthesis.
	MonthDay *string `json:"date_str,omitempty"`

	// MasterBillNumber is the bill of lading after null coercion and
	// synthesis. Blank cells and the literal "nan" are null; a null
	// bill with a known date becomes "{Importer} {MonthDay}". It stays
	// nil only when the date is also unknown.
	MasterBillNumber *string `json:"master_bill_number,omitempty"`

	// ContainerName is the trimmed string form of MasterBillNumber and
	// the join key for every aggregate. A nil bill stringifies to the
	// literal placeholder "nan".
	ContainerName string `json:"container_name"`

	// Quantity is the numeric quantity; nil when unparsable. Reported
	// as Weight (kgs).
	Quantity *float64 `json:"quantity,omitempty"`

	// ValueUSD is the numeric Value(USD); nil when unparsable. Reported
	// as Value (USD) and as Shipment Cost.
	ValueUSD *float64 `json:"value_usd,omitempty"`

	// UnitPriceUSD is the numeric Unit Price(USD); nil when unparsable.
	UnitPriceUSD *float64 `json:"unit_price_usd,omitempty"`
}

// WeightKgs is the reporting alias for Quantity.
func (r *ShipmentRecord) WeightKgs() *float64 { return r.Quantity }

// ShipmentCostUSD is the reporting alias for ValueUSD.
func (r *ShipmentRecord) ShipmentCostUSD() *float64 { return r.ValueUSD }

// Cell returns the raw text of the named column, empty when absent.
func (r *ShipmentRecord) Cell(column string) string {
	if r.Raw == nil {
		return ""
	}
	return r.Raw[column]
}

// Dataset is the unified table built from every accepted input file.
// Records preserve row order within and across files in upload order;
// Columns is the union of raw column names in first-seen order.
type Dataset struct {
	Columns []string         `json:"columns"`
	Records []ShipmentRecord `json:"records"`
}

// Empty reports whether no accepted file contributed any rows.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Records) == 0
}

// MergeColumns appends the column names not yet present, preserving
// first-seen order across files.
func (d *Dataset) MergeColumns(columns []string) {
	seen := make(map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		seen[c] = struct{}{}
	}
	for _, c := range columns {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		d.Columns = append(d.Columns, c)
	}
}

// FileStatus classifies the outcome of ingesting one input file.
type FileStatus string

const (
	// FileStatusOK means the file contributed rows to the dataset.
	FileStatusOK FileStatus = "ok"
	// FileStatusWarning means the file was skipped for a content reason
	// (missing required columns, no usable rows).
	FileStatusWarning FileStatus = "warning"
	// FileStatusError means the file could not be read at all.
	FileStatusError FileStatus = "error"
)

// FileReport is the per-file outcome surfaced to callers. Skipped files
// never abort a run; they are reported and left out of the dataset.
type FileReport struct {
	FileName string     `json:"file_name" validate:"required"`
	Status   FileStatus `json:"status" validate:"required,oneof=ok warning error"`
	Rows     int        `json:"rows"`
	Reason   string     `json:"reason,omitempty"`
}

// Accepted reports whether the file's rows made it into the dataset.
func (fr FileReport) Accepted() bool { return fr.Status == FileStatusOK }
