package config

import "time"

// Application constants - hardcoded values for the CargoLens system
const (
	// Application Info
	AppName    = "CargoLens"
	AppVersion = "1.0.0"

	// Report Artifacts
	DefaultReportFileName = "Container_Analysis_Report.xlsx"
	ReportContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// Analysis Defaults
	DefaultSimilarityThreshold = 90

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultAnalyzeTimeout  = 5 * time.Minute
	DefaultShutdownTimeout = 30 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultUploadsDir = "data/uploads"
	DefaultReportsDir = "data/reports"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// API Endpoints (internal)
	APIBasePath      = "/api"
	AnalyzeEndpoint  = "/api/analyze"
	ReportsEndpoint  = "/api/reports"
	HealthEndpoint   = "/api/health"
)
