package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "cargolens/internal/errors"
	custommw "cargolens/internal/middleware"
	v1 "cargolens/pkg/contracts/api/v1"
)

// ReportHandler serves the report artifacts produced by analysis runs.
type ReportHandler struct {
	service  ReportServiceInterface
	validate *custommw.ValidationMiddleware
	logger   *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, validate *custommw.ValidationMiddleware, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service:  service,
		validate: validate,
		logger:   logger.With(slog.String("handler", "reports")),
	}
}

// Routes returns the report endpoint routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{name}/download", h.Download)
	return r
}

// List handles GET /api/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reports, err := h.service.ListReports(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list reports",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.MapAnalysisError(err, custommw.GetRequestID(ctx)))
		return
	}

	entries := make([]v1.ReportEntry, 0, len(reports))
	for _, rep := range reports {
		entries = append(entries, v1.ReportEntry{
			Name:        rep.Name,
			Size:        rep.Size,
			Modified:    rep.Modified,
			DownloadURL: reportDownloadURL(rep.Name),
		})
	}

	render.JSON(w, r, v1.ReportListResponse{
		Reports: entries,
		Count:   len(entries),
	})
}

// Download handles GET /api/reports/{name}/download. The artifact name
// must pass the filename validator, which rejects traversal-shaped names
// before they reach the filesystem.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := custommw.GetRequestID(ctx)

	name := chi.URLParam(r, "name")
	req := v1.ReportDownloadRequest{FileName: name}
	if err := h.validate.ValidateStruct(&req); err != nil {
		h.logger.WarnContext(ctx, "rejected report name",
			slog.String("name", name),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewProblemDetails(
			http.StatusBadRequest,
			"/errors/invalid-report-name",
			"Invalid Report Name",
			"The report name must be a bare file name.",
			r.URL.Path,
		).WithExtension("trace_id", traceID))
		return
	}

	if err := h.service.ServeReport(ctx, w, r, name); err != nil {
		render.Render(w, r, apierrors.MapAnalysisError(err, traceID))
	}
}
