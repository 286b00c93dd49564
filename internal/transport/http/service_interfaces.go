package http

import (
	"context"
	"net/http"

	"cargolens/internal/dataprocessing"
	"cargolens/internal/services"
)

// AnalysisServiceInterface defines the pipeline operations the analyze
// endpoint needs. Satisfied by services.AnalysisService.
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, inputs []dataprocessing.Input) (*services.AnalysisResult, error)
}

// ReportServiceInterface defines the report artifact operations the
// reports endpoints need. Satisfied by services.ReportService.
type ReportServiceInterface interface {
	ListReports(ctx context.Context) ([]services.ReportInfo, error)
	ServeReport(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) error
}
