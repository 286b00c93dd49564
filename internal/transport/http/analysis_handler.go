package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cargolens/internal/config"
	"cargolens/internal/dataprocessing"
	apierrors "cargolens/internal/errors"
	custommw "cargolens/internal/middleware"
	v1 "cargolens/pkg/contracts/api/v1"
)

// AnalysisHandler handles the multipart analyze endpoint. One request is
// one full pipeline run; file parts are processed in form order, which
// decides importer cluster assignment.
type AnalysisHandler struct {
	service  AnalysisServiceInterface
	policy   custommw.UploadPolicy
	validate *custommw.ValidationMiddleware
	logger   *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, uploadCfg config.UploadConfig, validate *custommw.ValidationMiddleware, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:  service,
		policy:   custommw.NewUploadPolicy(uploadCfg),
		validate: validate,
		logger:   logger.With(slog.String("handler", "analysis")),
	}
}

// uploadedPart is validated before the policy checks so traversal-shaped
// or non-spreadsheet part names never reach the pipeline.
type uploadedPart struct {
	FileName string `json:"file_name" validate:"required,spreadsheet"`
}

// Routes returns the analysis endpoint routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Analyze)
	return r
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := custommw.GetRequestID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.policy.MaxBodyBytes())

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.logger.WarnContext(ctx, "failed to parse multipart form",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewProblemDetails(
			http.StatusBadRequest,
			"/errors/invalid-multipart",
			"Invalid Upload",
			"The request body is not a valid multipart form.",
			r.URL.Path,
		).WithExtension("trace_id", traceID))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if err := h.policy.CheckCount(len(headers)); err != nil {
		render.Render(w, r, apierrors.MapAnalysisError(err, traceID))
		return
	}

	for _, fh := range headers {
		if err := h.validate.ValidateStruct(&uploadedPart{FileName: fh.Filename}); err != nil {
			h.logger.WarnContext(ctx, "upload rejected",
				slog.String("file", fh.Filename),
				slog.String("error", err.Error()))
			render.Render(w, r, apierrors.MapAnalysisError(
				fmt.Errorf("%w: %s", apierrors.ErrUnsupportedFileFormat, fh.Filename), traceID))
			return
		}
		if err := h.policy.CheckFile(fh.Filename, fh.Size); err != nil {
			h.logger.WarnContext(ctx, "upload rejected",
				slog.String("file", fh.Filename),
				slog.String("error", err.Error()))
			render.Render(w, r, apierrors.MapAnalysisError(err, traceID))
			return
		}
	}

	inputs, closers, err := openParts(headers)
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to open uploaded part",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.MapAnalysisError(apierrors.ErrAnalysisFailed, traceID))
		return
	}

	h.logger.InfoContext(ctx, "analyze request accepted",
		slog.Int("files", len(inputs)))

	result, err := h.service.Analyze(ctx, inputs)
	if err != nil {
		if errors.Is(err, apierrors.ErrNoValidFiles) && result != nil {
			problem := apierrors.NewNoValidFilesError(&apierrors.AnalysisRunDetails{
				FilesReceived: result.Summary.FilesReceived,
				FilesAccepted: result.Summary.FilesAccepted,
			}, traceID)
			problem.WithExtension("files", result.Summary.Files)
			render.Render(w, r, problem)
			return
		}
		render.Render(w, r, apierrors.MapAnalysisError(err, traceID))
		return
	}

	render.JSON(w, r, v1.AnalyzeResponse{
		Summary: result.Summary,
		Report: v1.ReportRef{
			Name:        result.Summary.ReportFile,
			DownloadURL: reportDownloadURL(result.Summary.ReportFile),
		},
	})
}

// openParts opens every file part in form order. On failure the already
// opened readers are returned so the caller can close them.
func openParts(headers []*multipart.FileHeader) ([]dataprocessing.Input, []multipart.File, error) {
	inputs := make([]dataprocessing.Input, 0, len(headers))
	closers := make([]multipart.File, 0, len(headers))

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, f)
		inputs = append(inputs, dataprocessing.Input{
			Name:   filepath.Base(fh.Filename),
			Reader: f,
		})
	}
	return inputs, closers, nil
}

func reportDownloadURL(name string) string {
	if name == "" {
		return ""
	}
	return "/api/reports/" + url.PathEscape(name) + "/download"
}
