// Package exporter renders the outputs of an analysis run.
//
// This package contains three main components:
//
// ReportWriter: Assembles the styled five-sheet xlsx workbook in memory,
// holding the cleaned row-level table plus the four aggregate sheets.
// Every sheet gets a bold frozen header row, a descending sort on the
// first cost/revenue/weight/value numeric column when one exists, grouped
// number and yyyy-mm-dd date formats, and content-fitted column widths.
//
// AggregateExporter: Writes the four aggregate tables as CSV files into
// the reports directory, with headers matching the workbook sheets.
//
// CSVWriter: Core CSV writing functionality with UTF-8 BOM support for
// Excel compatibility.
//
// Example usage:
//
//	writer := exporter.NewReportWriter(logger)
//	artifact, err := writer.Write(ctx, dataset, aggregates)
//
//	csvExporter := exporter.NewAggregateExporter(paths)
//	files, err := csvExporter.ExportAggregates(aggregates)
package exporter
