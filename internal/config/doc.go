// Package config provides centralized configuration management for CargoLens.
// It handles loading configuration from multiple sources, validation, and
// provides a type-safe API for accessing configuration values throughout the
// application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// A .env file in the working directory is loaded best-effort before the
// environment is read, so local runs can keep settings in one place.
//
// # Environment Variables
//
// All environment variables follow the pattern CARGOLENS_* for namespacing:
//
//	CARGOLENS_SERVER_PORT=8080
//	CARGOLENS_LOGGING_LEVEL=info
//	CARGOLENS_ANALYSIS_SIMILARITY_THRESHOLD=90
//	CARGOLENS_UPLOAD_MAX_FILE_BYTES=20971520
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which resolves all file system paths relative to the executable location:
//
//	paths, err := cfg.ResolvePaths()
//	reportPath := paths.GetReportPath("Container_Analysis_Report.xlsx")
//	uploadPath := paths.GetUploadPath("batch-1.xlsx")
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
