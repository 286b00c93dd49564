// Package dataprocessing implements the CargoLens analysis pipeline from
// raw spreadsheet rows to aggregate tables.
//
// # Architecture
//
// The package is organized into four components, run in order:
//
// 1. Parser: reads each input spreadsheet into the unified dataset
// 2. Normalizer: canonicalizes importer names by greedy fuzzy clustering
// 3. Deriver: computes typed fields (dates, bill numbers, container keys, measures)
// 4. Summarizer: reduces the records into the four aggregate tables
//
// # Usage
//
// A full pass over a batch of inputs:
//
//	parser := dataprocessing.NewParser(logger)
//	dataset, reports := parser.ParseAll(ctx, inputs)
//
//	normalizer := dataprocessing.NewNormalizer(logger, dataprocessing.DefaultSimilarityThreshold)
//	normalizer.Apply(ctx, dataset)
//
//	dataprocessing.NewDeriver(logger).Derive(ctx, dataset)
//	aggregates := dataprocessing.NewSummarizer(logger).Aggregate(ctx, dataset.Records)
//
// # Data Flow
//
// The typical data flow through this package:
//
//	Spreadsheet Files → Parser → Dataset → Normalizer → Deriver → Summarizer → Aggregate Tables
//
// # Error Handling
//
// Per-file problems never abort a batch: unreadable, empty, and
// column-deficient files are skipped and surfaced as FileReport entries.
// Per-value coercion failures become nil fields, silently; rows are never
// dropped for bad values.
//
// # Testing
//
// The package includes table-driven tests for all components; workbook
// fixtures are built in memory with excelize.
package dataprocessing
