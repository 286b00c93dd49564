package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"cargolens/internal/config"
	apperrors "cargolens/internal/errors"
	"cargolens/internal/files"
)

// ReportService lists and serves the report artifacts earlier analysis
// runs left in the reports directory.
type ReportService struct {
	paths     *config.Paths
	discovery *files.Discovery
	logger    *slog.Logger
}

// ReportInfo describes one downloadable report artifact.
type ReportInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// NewReportService creates a report service using the default logger
func NewReportService(cfg *config.Config) (*ReportService, error) {
	return NewReportServiceWithLogger(cfg, slog.Default())
}

// NewReportServiceWithLogger creates a report service with a specific logger
func NewReportServiceWithLogger(cfg *config.Config, logger *slog.Logger) (*ReportService, error) {
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ReportService{
		paths:     paths,
		discovery: files.NewDiscovery(paths.ReportsDir),
		logger:    logger,
	}, nil
}

// ListReports returns the report artifacts newest first. A reports
// directory that does not exist yet simply lists as empty.
func (s *ReportService) ListReports(ctx context.Context) ([]ReportInfo, error) {
	s.logger.DebugContext(ctx, "listing report artifacts",
		slog.String("reports_dir", s.paths.ReportsDir))

	found, err := s.discovery.FindReportFiles(s.paths.ReportsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ReportInfo{}, nil
		}
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]ReportInfo, 0, len(found))
	for _, f := range found {
		reports = append(reports, ReportInfo{
			Name:     f.Name,
			Size:     f.Size,
			Modified: f.ModTime,
		})
	}

	s.logger.DebugContext(ctx, "report artifacts listed",
		slog.Int("count", len(reports)))
	return reports, nil
}

// ResolveReport maps an artifact name to its absolute path inside the
// reports directory. Names that escape the directory or name nothing on
// disk resolve to ErrReportNotFound.
func (s *ReportService) ResolveReport(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", apperrors.ErrReportNotFound
	}

	// Clean the name to prevent directory traversal attacks
	cleaned := filepath.Clean(filepath.FromSlash(name))

	absPath, err := filepath.Abs(filepath.Join(s.paths.ReportsDir, cleaned))
	if err != nil {
		return "", fmt.Errorf("failed to resolve report path: %w", err)
	}
	absDir, err := filepath.Abs(s.paths.ReportsDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve reports directory: %w", err)
	}

	// Ensure the resolved path stays within the reports directory
	if absPath != absDir && !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		s.logger.WarnContext(ctx, "attempted directory traversal",
			slog.String("requested", name),
			slog.String("resolved", absPath))
		return "", apperrors.ErrReportNotFound
	}

	if !config.FileExists(absPath) {
		return "", apperrors.ErrReportNotFound
	}

	return absPath, nil
}

// ServeReport streams a report artifact as a download.
func (s *ReportService) ServeReport(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) error {
	path, err := s.ResolveReport(ctx, name)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "serving report download",
		slog.String("report", filepath.Base(path)))

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filepath.Base(path)))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, path)
	return nil
}
