// Package api contains API contract definitions for the CargoLens service.
// Version v1 represents the current stable API version.
package api

import (
	"time"

	"cargolens/pkg/contracts/domain"
)

// AnalyzeResponse is the success envelope for POST /api/analyze.
type AnalyzeResponse struct {
	Summary domain.AnalysisSummary `json:"summary"`
	Report  ReportRef              `json:"report"`
}

// ReportRef points a client at a generated report artifact.
type ReportRef struct {
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
}

// ReportListResponse is the envelope for GET /api/reports.
type ReportListResponse struct {
	Reports []ReportEntry `json:"reports"`
	Count   int           `json:"count"`
}

// ReportEntry describes one downloadable report artifact.
type ReportEntry struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	Modified    time.Time `json:"modified"`
	DownloadURL string    `json:"download_url"`
}

// ClientLogRequest is a log line forwarded from the browser UI.
type ClientLogRequest struct {
	Level   string                 `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message string                 `json:"message" validate:"required"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Source  string                 `json:"source,omitempty"`
}

// ReportDownloadRequest names an artifact to stream back.
type ReportDownloadRequest struct {
	FileName string `json:"file_name" validate:"required,filename"`
}
