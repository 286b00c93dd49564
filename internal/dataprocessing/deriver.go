package dataprocessing

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"cargolens/pkg/contracts/domain"
)

// nullBillLiteral is the stringified-null marker some exports carry in the
// bill column. It is treated the same as a blank cell, and doubles as the
// container placeholder when no bill can be synthesized.
const nullBillLiteral = "nan"

// dateLayouts are tried in order. The non-padded numeric forms accept
// both "1/5/24" and "01/05/24". Month-first forms take precedence over
// day-first forms, so "03/04/2024" resolves to March 4 while "13/04/2024"
// still resolves to April 13. Two-digit-year forms come before their
// four-digit siblings, and year-first forms come last within each
// separator family; either way around, the wrong layout would swallow a
// short date like "1/2/20" as an ancient year.
var dateLayouts = []string{
	"2006-1-2 15:04:05",
	"2006-1-2T15:04:05",
	time.RFC3339,
	"1/2/06",
	"2/1/06",
	"1/2/2006",
	"2/1/2006",
	"2006/1/2",
	"1-2-06",
	"2-1-06",
	"1-2-2006",
	"2-1-2006",
	"2006-1-2",
	"2-Jan-06",
	"2-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Deriver computes the typed per-record fields: parsed dates, synthesized
// bill numbers, the container join key, and the numeric measures. Every
// coercion fails soft to nil; rows are never dropped here.
type Deriver struct {
	logger *slog.Logger
}

// NewDeriver creates a deriver logging pass summaries to the given logger.
func NewDeriver(logger *slog.Logger) *Deriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deriver{logger: logger}
}

// Derive fills the derived fields of every record in place. The pass is
// idempotent and does not care whether the normalizer already ran.
func (d *Deriver) Derive(ctx context.Context, dataset *domain.Dataset) {
	if dataset.Empty() {
		return
	}

	var synthesized, nullDates int
	for i := range dataset.Records {
		record := &dataset.Records[i]

		record.Importer = strings.ToUpper(strings.TrimSpace(record.Cell(ColumnImporter)))
		record.Date = parseDate(record.Cell(ColumnDate))
		record.MonthDay = monthDay(record.Date)
		if record.Date == nil {
			nullDates++
		}
		if deriveBill(record) {
			synthesized++
		}

		record.Quantity = parseNumber(record.Cell(ColumnQuantity))
		record.ValueUSD = parseNumber(record.Cell(ColumnValue))
		record.UnitPriceUSD = parseNumber(record.Cell(ColumnUnitPrice))
	}

	d.logger.InfoContext(ctx, "derived shipment fields",
		slog.Int("records", len(dataset.Records)),
		slog.Int("synthesized_bills", synthesized),
		slog.Int("null_dates", nullDates))
}

// deriveBill sets MasterBillNumber and ContainerName, reporting whether
// the bill had to be synthesized from importer and date. A blank cell or
// the exact literal "nan" counts as null; whitespace around the literal
// keeps the cell out of the null check. A null bill with a known date
// becomes "{Importer} {MonthDay}"; with the date also unknown it stays
// null and the container key falls back to the "nan" placeholder.
func deriveBill(record *domain.ShipmentRecord) bool {
	raw := record.Cell(ColumnBill)
	if raw != "" && raw != nullBillLiteral {
		record.MasterBillNumber = &raw
		record.ContainerName = strings.TrimSpace(raw)
		return false
	}

	if record.MonthDay != nil {
		bill := record.Importer + " " + *record.MonthDay
		record.MasterBillNumber = &bill
		record.ContainerName = strings.TrimSpace(bill)
		return true
	}

	record.MasterBillNumber = nil
	record.ContainerName = nullBillLiteral
	return false
}

// parseDate coerces a cell to a date. It tries the known layouts first and
// Excel serial numbers second; anything else yields nil.
func parseDate(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}

	if serial, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return &t
		}
	}
	return nil
}

// monthDay renders a date as its uppercased month name plus zero-padded
// day ("JANUARY05"), the shape used when synthesizing bill numbers.
func monthDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := strings.ToUpper(t.Format("January02"))
	return &v
}

// parseNumber coerces a cell to float64, tolerating thousands separators.
// Anything unparsable yields nil, never an error.
func parseNumber(value string) *float64 {
	v := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
