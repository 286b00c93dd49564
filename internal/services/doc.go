// Package services implements the business logic layer of CargoLens.
// It provides a clean separation between HTTP handlers and the data
// pipeline, ensuring that business rules are centralized and testable.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
// The package provides these core services:
//
//	- AnalysisService: Runs the full spreadsheet analysis pipeline and
//	  persists the report workbook
//	- ReportService: Lists and serves generated report artifacts
//	- HealthService: Provides liveness, readiness, and version checks
//
// # Common Service Pattern
//
// Services typically follow this structure:
//
//	svc, err := services.NewAnalysisServiceWithLogger(cfg, logger)
//	if err != nil {
//	    return err
//	}
//
//	result, err := svc.Analyze(ctx, inputs)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Summary.ReportFile)
//
// # Error Handling
//
// Services return the sentinel errors defined in internal/errors so that
// handlers can map them to RFC 7807 problem responses:
//
//	- ErrNoFilesProvided when a run is requested with no inputs
//	- ErrNoValidFiles when every input file was rejected
//	- ErrReportNotFound when a download names a missing artifact
//	- ErrReportWriteFailed when the artifact cannot be produced
package services
