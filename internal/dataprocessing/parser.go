package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"cargolens/pkg/contracts/domain"
)

// Column names the pipeline depends on, exactly as they appear in
// Tradesparq exports after header trimming.
const (
	ColumnImporter    = "Importer"
	ColumnDate        = "Date"
	ColumnBill        = "Master Bill Number"
	ColumnQuantity    = "Quantity"
	ColumnValue       = "Value(USD)"
	ColumnUnitPrice   = "Unit Price(USD)"
	ColumnDescription = "Description"
)

// RequiredColumns must all be present after header trimming for a file to
// join the dataset.
var RequiredColumns = []string{
	ColumnImporter,
	ColumnDate,
	ColumnBill,
	ColumnQuantity,
	ColumnValue,
	ColumnUnitPrice,
	ColumnDescription,
}

// headerRowIndex is where the column names live: every export carries one
// ignorable banner row above the header.
const headerRowIndex = 1

// Input is one named spreadsheet source queued for ingestion. The reader
// is consumed exactly once.
type Input struct {
	Name   string
	Reader io.Reader
}

type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatWorkbook
	formatLegacyWorkbook
	formatCSV
)

// detectFormat picks the reader for a file by its extension,
// case-insensitively. Unknown extensions are resolved later by trying
// xlsx first, then csv.
func detectFormat(name string) fileFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return formatWorkbook
	case ".xls":
		return formatLegacyWorkbook
	case ".csv":
		return formatCSV
	default:
		return formatUnknown
	}
}

// Parser ingests spreadsheet inputs into the unified dataset. Per-file
// problems are reported, never raised: an unreadable, empty, or
// column-deficient file is skipped and the batch continues.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser that logs per-file outcomes to the given
// logger.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseAll ingests every input in order and returns the unified dataset
// plus one FileReport per input, in input order. Row order is preserved
// within and across files. The dataset may come back empty; deciding what
// that means is the caller's job.
func (p *Parser) ParseAll(ctx context.Context, inputs []Input) (*domain.Dataset, []domain.FileReport) {
	dataset := &domain.Dataset{}
	reports := make([]domain.FileReport, 0, len(inputs))

	for _, in := range inputs {
		reports = append(reports, p.parseOne(ctx, in, dataset))
	}

	p.logger.InfoContext(ctx, "ingest finished",
		slog.Int("files_received", len(inputs)),
		slog.Int("records", len(dataset.Records)))

	return dataset, reports
}

// parseOne reads a single input, appends its rows to the dataset when the
// file validates, and returns the per-file outcome.
func (p *Parser) parseOne(ctx context.Context, in Input, dataset *domain.Dataset) domain.FileReport {
	grid, err := p.readGrid(in)
	if err != nil {
		p.logger.ErrorContext(ctx, "input file unreadable",
			slog.String("file", in.Name),
			slog.String("error", err.Error()))
		return domain.FileReport{
			FileName: in.Name,
			Status:   domain.FileStatusError,
			Reason:   err.Error(),
		}
	}

	header, rows := tabulate(grid)
	if len(rows) == 0 || allBlank(rows) {
		p.logger.WarnContext(ctx, "input file is empty, skipped",
			slog.String("file", in.Name))
		return domain.FileReport{
			FileName: in.Name,
			Status:   domain.FileStatusWarning,
			Reason:   "file is empty",
		}
	}

	if missing := missingColumns(header); len(missing) > 0 {
		p.logger.WarnContext(ctx, "input file is missing required columns, skipped",
			slog.String("file", in.Name),
			slog.String("missing", strings.Join(missing, ", ")))
		return domain.FileReport{
			FileName: in.Name,
			Status:   domain.FileStatusWarning,
			Reason:   fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		}
	}

	records := buildRecords(in.Name, header, rows)
	dataset.MergeColumns(header)
	dataset.Records = append(dataset.Records, records...)

	p.logger.InfoContext(ctx, "input file accepted",
		slog.String("file", in.Name),
		slog.Int("rows", len(records)))

	return domain.FileReport{
		FileName: in.Name,
		Status:   domain.FileStatusOK,
		Rows:     len(records),
	}
}

// readGrid loads the whole input and parses it with the reader its
// extension selects. Unknown extensions try the xlsx reader first and fall
// back to csv.
func (p *Parser) readGrid(in Input) ([][]string, error) {
	data, err := io.ReadAll(in.Reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	switch detectFormat(in.Name) {
	case formatWorkbook:
		return readWorkbookRows(data)
	case formatLegacyWorkbook:
		return readLegacyWorkbookRows(data)
	case formatCSV:
		return readCSVRows(data)
	default:
		grid, wbErr := readWorkbookRows(data)
		if wbErr == nil {
			return grid, nil
		}
		return readCSVRows(data)
	}
}

// readWorkbookRows reads the first sheet of an xlsx/xlsm workbook.
func readWorkbookRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// readLegacyWorkbookRows reads the first sheet of a BIFF .xls workbook.
func readLegacyWorkbookRows(data []byte) ([][]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}

	sheet, err := book.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("read xls sheet: %w", err)
	}
	if sheet == nil {
		return nil, fmt.Errorf("xls workbook has no sheets")
	}

	var grid [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, col := range row.GetCols() {
			cells = append(cells, col.GetString())
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// readCSVRows reads a csv file, tolerating ragged row lengths.
func readCSVRows(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	grid, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return grid, nil
}

// tabulate drops the banner row and the leading index column, trims the
// column names, and pads every data row to the header width. Cell text is
// left untouched; trimming individual values is the deriver's job.
func tabulate(grid [][]string) (header []string, rows [][]string) {
	if len(grid) <= headerRowIndex {
		return nil, nil
	}

	rawHeader := grid[headerRowIndex]
	if len(rawHeader) > 0 {
		rawHeader = rawHeader[1:]
	}
	header = make([]string, len(rawHeader))
	for i, name := range rawHeader {
		header[i] = strings.TrimSpace(name)
	}

	for _, raw := range grid[headerRowIndex+1:] {
		if len(raw) > 0 {
			raw = raw[1:]
		}
		row := make([]string, len(header))
		copy(row, raw)
		rows = append(rows, row)
	}
	return header, rows
}

// allBlank reports whether every cell of every row is empty.
func allBlank(rows [][]string) bool {
	for _, row := range rows {
		for _, cell := range row {
			if cell != "" {
				return false
			}
		}
	}
	return true
}

// missingColumns returns the required columns absent from the header, in
// RequiredColumns order.
func missingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, name := range header {
		present[name] = struct{}{}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// buildRecords turns data rows into shipment records tagged with their
// source file. The first occurrence wins for duplicated column names.
func buildRecords(fileName string, header []string, rows [][]string) []domain.ShipmentRecord {
	records := make([]domain.ShipmentRecord, 0, len(rows))
	for _, row := range rows {
		raw := make(map[string]string, len(header))
		for i, name := range header {
			if _, ok := raw[name]; ok {
				continue
			}
			raw[name] = row[i]
		}
		records = append(records, domain.ShipmentRecord{
			Raw:        raw,
			SourceFile: fileName,
		})
	}
	return records
}
