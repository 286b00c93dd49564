package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"cargolens/internal/dataprocessing"
	"cargolens/pkg/contracts/domain"
)

// DefaultReportName is the artifact file name of the styled workbook.
const DefaultReportName = "Container_Analysis_Report.xlsx"

// Sheet names of the report workbook, in write order.
const (
	SheetCleanedData           = "Cleaned Data"
	SheetProductsPerContainer  = "Products per Container"
	SheetWeightPerProduct      = "Weight per Product"
	SheetShipmentCost          = "Shipment Cost"
	SheetTotalValuePerImporter = "Total Value per Importer"
)

const (
	groupedNumberFormat = "#,##,##0"
	dateNumberFormat    = "yyyy-mm-dd"
)

// sortKeywords mark a numeric column as the sheet's descending sort key
// and give it the grouped number format. First matching column wins.
var sortKeywords = []string{"cost", "revenue", "weight", "value"}

// excludedCleanedColumns are dropped from the Cleaned Data sheet only.
// The "Exporter ContactPackaging type" entry is a known quirk carried
// from the reference list; the two real columns it mangles survive.
var excludedCleanedColumns = []string{
	"HS Code Description",
	"Importer Address",
	"Importer Contact",
	"Exporter Address",
	"Exporter ContactPackaging type",
	"Number of packages",
	"Package unit",
	"TEU",
	"Freight fee",
	"Insurance fee",
	"Loading Place",
	"Unloading Place",
	"Customs",
	"incoterms",
	"Carrier",
	"VOCC",
	"Vessel Name",
	"Voyage",
	"House Bill Number",
	"Customs Declaration Number",
}

type columnKind int

const (
	kindText columnKind = iota
	kindNumber
	kindDate
)

// column is one typed column of a report sheet.
type column struct {
	name string
	kind columnKind
}

// sheetTable is the materialized content of one sheet before styling.
// Cells are nil (blank), string, int, float64, or time.Time.
type sheetTable struct {
	sheet   string
	columns []column
	rows    [][]any
}

// sheetStyles caches the style IDs shared by every sheet of one workbook.
type sheetStyles struct {
	header int
	number int
	date   int
}

// ReportWriter assembles the five-sheet analysis workbook in memory.
type ReportWriter struct {
	logger *slog.Logger
}

// NewReportWriter creates a report writer logging to the given logger.
func NewReportWriter(logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{logger: logger}
}

// Write renders the cleaned table and the four aggregates into one xlsx
// workbook and returns its bytes.
func (w *ReportWriter) Write(ctx context.Context, dataset *domain.Dataset, aggregates *domain.AggregateSet) ([]byte, error) {
	tables := []sheetTable{
		cleanedDataTable(dataset),
		productsTable(aggregates.ProductsPerContainer),
		weightTable(aggregates.WeightPerProduct),
		costTable(aggregates.ShipmentCostPerContainer),
		valueTable(aggregates.TotalValuePerImporter),
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), tables[0].sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet %q: %w", tables[0].sheet, err)
	}
	for _, tbl := range tables[1:] {
		if _, err := f.NewSheet(tbl.sheet); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", tbl.sheet, err)
		}
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create styles: %w", err)
	}

	for _, tbl := range tables {
		if err := writeSheet(f, tbl, styles); err != nil {
			return nil, fmt.Errorf("failed to write sheet %q: %w", tbl.sheet, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}

	w.logger.InfoContext(ctx, "report workbook assembled",
		slog.Int("sheets", len(tables)),
		slog.Int("records", len(dataset.Records)),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return sheetStyles{}, err
	}

	numFmt := groupedNumberFormat
	number, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return sheetStyles{}, err
	}

	dateFmt := dateNumberFormat
	date, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return sheetStyles{}, err
	}

	return sheetStyles{header: header, number: number, date: date}, nil
}

// writeSheet fills one sheet: sorted rows, bold frozen header, column
// formats and widths.
func writeSheet(f *excelize.File, tbl sheetTable, styles sheetStyles) error {
	rows := sortRows(tbl)

	for j, col := range tbl.columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(tbl.sheet, cell, col.name); err != nil {
			return err
		}
	}

	for i, row := range rows {
		for j, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(tbl.sheet, cell, value); err != nil {
				return err
			}
		}
	}

	// Column styles first: SetColStyle overwrites cell styles, so the
	// bold header pass must come after it.
	for j, col := range tbl.columns {
		name, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}

		width := columnWidth(col, rows, j)
		switch {
		case col.kind == kindDate:
			if err := f.SetColStyle(tbl.sheet, name, styles.date); err != nil {
				return err
			}
			width += 5
		case col.kind == kindNumber && hasSortKeyword(col.name):
			if err := f.SetColStyle(tbl.sheet, name, styles.number); err != nil {
				return err
			}
		}

		if err := f.SetColWidth(tbl.sheet, name, name, width); err != nil {
			return err
		}
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(tbl.columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(tbl.sheet, "A1", lastHeader, styles.header); err != nil {
		return err
	}

	return f.SetPanes(tbl.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// sortRows returns the rows ordered for display: descending by the first
// keyword-named numeric column, blanks last; insertion order when no
// column qualifies.
func sortRows(tbl sheetTable) [][]any {
	rows := make([][]any, len(tbl.rows))
	copy(rows, tbl.rows)

	idx := sortColumn(tbl.columns)
	if idx < 0 {
		return rows
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := numericCell(rows[i][idx])
		b, bok := numericCell(rows[j][idx])
		if aok != bok {
			return aok
		}
		if !aok {
			return false
		}
		return a > b
	})
	return rows
}

func sortColumn(columns []column) int {
	for j, col := range columns {
		if col.kind == kindNumber && hasSortKeyword(col.name) {
			return j
		}
	}
	return -1
}

func hasSortKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range sortKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func numericCell(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// columnWidth is max(longest stringified cell, header length) plus
// padding; a column with no values at all gets a base width of 10.
func columnWidth(col column, rows [][]any, idx int) float64 {
	maxLen := 0
	empty := true
	for _, row := range rows {
		if row[idx] == nil {
			continue
		}
		empty = false
		if n := len(displayString(row[idx])); n > maxLen {
			maxLen = n
		}
	}
	if empty {
		maxLen = 10
	}
	if n := len(col.name); n > maxLen {
		maxLen = n
	}
	return float64(maxLen + 5)
}

func displayString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}

// cleanedDataTable lays out the Cleaned Data sheet: the surviving raw
// columns in dataset order, with the cleaned values shown in place of
// the raw ones where the pipeline overwrote them, followed by the
// derived columns.
func cleanedDataTable(dataset *domain.Dataset) sheetTable {
	excluded := make(map[string]struct{}, len(excludedCleanedColumns))
	for _, name := range excludedCleanedColumns {
		excluded[name] = struct{}{}
	}

	var columns []column
	var rawOrder []string
	for _, name := range dataset.Columns {
		if _, drop := excluded[name]; drop {
			continue
		}
		rawOrder = append(rawOrder, name)
		switch name {
		case dataprocessing.ColumnDate:
			columns = append(columns, column{name: name, kind: kindDate})
		case dataprocessing.ColumnQuantity:
			columns = append(columns, column{name: name, kind: kindNumber})
		default:
			columns = append(columns, column{name: name, kind: kindText})
		}
	}

	columns = append(columns,
		column{name: "source_file", kind: kindText},
		column{name: "Normalized_Importer", kind: kindText},
		column{name: "Date_str", kind: kindText},
		column{name: "Unique Master Bill Number", kind: kindText},
		column{name: "Container Name", kind: kindText},
		column{name: "Weight (kgs)", kind: kindNumber},
		column{name: "Value (USD)", kind: kindNumber},
		column{name: "Unit Price (USD)", kind: kindNumber},
		column{name: "Shipment Cost", kind: kindNumber},
	)

	rows := make([][]any, 0, len(dataset.Records))
	for i := range dataset.Records {
		record := &dataset.Records[i]
		row := make([]any, 0, len(columns))
		for _, name := range rawOrder {
			row = append(row, cleanedCell(record, name))
		}
		row = append(row,
			record.SourceFile,
			record.NormalizedImporter,
			textOrNil(record.MonthDay),
			record.ContainerName,
			record.ContainerName,
			numberOrNil(record.WeightKgs()),
			numberOrNil(record.ValueUSD),
			numberOrNil(record.UnitPriceUSD),
			numberOrNil(record.ShipmentCostUSD()),
		)
		rows = append(rows, row)
	}

	return sheetTable{sheet: SheetCleanedData, columns: columns, rows: rows}
}

// cleanedCell returns the display value of one raw column. Importer,
// Date, Master Bill Number and Quantity were overwritten by the pipeline
// and show their cleaned values; everything else passes through as text.
func cleanedCell(record *domain.ShipmentRecord, name string) any {
	switch name {
	case dataprocessing.ColumnImporter:
		return record.Importer
	case dataprocessing.ColumnDate:
		return dateOrNil(record.Date)
	case dataprocessing.ColumnBill:
		return textOrNil(record.MasterBillNumber)
	case dataprocessing.ColumnQuantity:
		return numberOrNil(record.Quantity)
	default:
		if v := record.Cell(name); v != "" {
			return v
		}
		return nil
	}
}

func productsTable(rows []domain.ContainerProducts) sheetTable {
	tbl := sheetTable{
		sheet: SheetProductsPerContainer,
		columns: []column{
			{name: "Container Name", kind: kindText},
			{name: "Total Products in Container", kind: kindNumber},
			{name: "Products List", kind: kindText},
		},
	}
	for _, row := range rows {
		tbl.rows = append(tbl.rows, []any{
			row.ContainerName,
			row.TotalProducts,
			strings.Join(row.Products, ", "),
		})
	}
	return tbl
}

func weightTable(rows []domain.ProductWeight) sheetTable {
	tbl := sheetTable{
		sheet: SheetWeightPerProduct,
		columns: []column{
			{name: "Container Name", kind: kindText},
			{name: "Description", kind: kindText},
			{name: "Weight (kgs)", kind: kindNumber},
		},
	}
	for _, row := range rows {
		tbl.rows = append(tbl.rows, []any{row.ContainerName, row.Description, row.WeightKgs})
	}
	return tbl
}

func costTable(rows []domain.ContainerCost) sheetTable {
	tbl := sheetTable{
		sheet: SheetShipmentCost,
		columns: []column{
			{name: "Container Name", kind: kindText},
			{name: "Total Shipment Cost (USD)", kind: kindNumber},
		},
	}
	for _, row := range rows {
		tbl.rows = append(tbl.rows, []any{row.ContainerName, row.TotalShipmentCostUSD})
	}
	return tbl
}

func valueTable(rows []domain.ImporterValue) sheetTable {
	tbl := sheetTable{
		sheet: SheetTotalValuePerImporter,
		columns: []column{
			{name: "Importer", kind: kindText},
			{name: "Total Value(USD) per Importer", kind: kindNumber},
		},
	}
	for _, row := range rows {
		tbl.rows = append(tbl.rows, []any{row.Importer, row.TotalValueUSD})
	}
	return tbl
}

func textOrNil(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func numberOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func dateOrNil(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}
