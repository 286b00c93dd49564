package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cargolens/internal/config"
	"cargolens/internal/dataprocessing"
	apperrors "cargolens/internal/errors"
	"cargolens/internal/exporter"
	"cargolens/internal/files"
	"cargolens/pkg/contracts/domain"
)

// AnalysisService orchestrates one analysis run end to end: ingest the
// spreadsheet batch, normalize importer names, derive the typed shipment
// fields, compute the aggregate tables, and persist the styled report
// workbook into the reports directory.
type AnalysisService struct {
	config     *config.Config
	paths      *config.Paths
	manager    *files.Manager
	parser     *dataprocessing.Parser
	normalizer *dataprocessing.Normalizer
	deriver    *dataprocessing.Deriver
	summarizer *dataprocessing.Summarizer
	report     *exporter.ReportWriter
	csv        *exporter.AggregateExporter
	logger     *slog.Logger
}

// AnalysisResult carries everything a completed run produced. Workbook
// holds the report bytes exactly as persisted, so callers can copy the
// artifact elsewhere without re-reading the reports directory.
type AnalysisResult struct {
	Summary    domain.AnalysisSummary
	Aggregates *domain.AggregateSet
	Workbook   []byte
}

// NewAnalysisService creates an analysis service using the default logger
func NewAnalysisService(cfg *config.Config) (*AnalysisService, error) {
	return NewAnalysisServiceWithLogger(cfg, slog.Default())
}

// NewAnalysisServiceWithLogger creates an analysis service with a specific logger
func NewAnalysisServiceWithLogger(cfg *config.Config, logger *slog.Logger) (*AnalysisService, error) {
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}

	// Ensure we have a logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("AnalysisService initialized with paths",
		slog.String("data_dir", paths.DataDir),
		slog.String("uploads_dir", paths.UploadsDir),
		slog.String("reports_dir", paths.ReportsDir))

	return &AnalysisService{
		config:     cfg,
		paths:      paths,
		manager:    files.NewManager(paths),
		parser:     dataprocessing.NewParser(logger),
		normalizer: dataprocessing.NewNormalizer(logger, cfg.Analysis.SimilarityThreshold),
		deriver:    dataprocessing.NewDeriver(logger),
		summarizer: dataprocessing.NewSummarizer(logger),
		report:     exporter.NewReportWriter(logger),
		csv:        exporter.NewAggregateExporter(paths),
		logger:     logger,
	}, nil
}

// Paths exposes the resolved path set the service operates on.
func (s *AnalysisService) Paths() *config.Paths {
	return s.paths
}

// Analyze runs the full pipeline over the given inputs and writes the
// report workbook into the reports directory. Inputs are processed in the
// order given; that order decides which importer spelling becomes the
// canonical one for each cluster.
//
// When every file is rejected the returned result still carries the
// per-file reports alongside ErrNoValidFiles, so callers can tell the
// client what was wrong with each file.
func (s *AnalysisService) Analyze(ctx context.Context, inputs []dataprocessing.Input) (*AnalysisResult, error) {
	if len(inputs) == 0 {
		return nil, apperrors.ErrNoFilesProvided
	}

	started := time.Now()
	s.logger.InfoContext(ctx, "analysis run started",
		slog.Int("files", len(inputs)))

	dataset, fileReports := s.parser.ParseAll(ctx, inputs)

	summary := domain.AnalysisSummary{
		FilesReceived: len(inputs),
		Files:         fileReports,
		GeneratedAt:   time.Now().UTC(),
	}
	for _, report := range fileReports {
		if report.Accepted() {
			summary.FilesAccepted++
		}
	}
	summary.FilesSkipped = summary.FilesReceived - summary.FilesAccepted

	if dataset.Empty() {
		s.logger.WarnContext(ctx, "analysis run produced no usable records",
			slog.Int("files_received", summary.FilesReceived),
			slog.Int("files_skipped", summary.FilesSkipped))
		return &AnalysisResult{Summary: summary}, apperrors.ErrNoValidFiles
	}

	stats := s.normalizer.Apply(ctx, dataset)
	s.deriver.Derive(ctx, dataset)
	aggregates := s.summarizer.Aggregate(ctx, dataset.Records)

	workbook, err := s.report.Write(ctx, dataset, aggregates)
	if err != nil {
		logAnalysisError(ctx, "write_report", "Failed to assemble report workbook",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrReportWriteFailed, err)
	}

	reportName := s.reportFileName()
	if err := s.manager.WriteFile("reports/"+reportName, workbook); err != nil {
		logAnalysisError(ctx, "persist_report", "Failed to persist report workbook",
			slog.String("report_file", reportName),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrReportWriteFailed, err)
	}

	summary.Records = len(dataset.Records)
	summary.Containers = len(aggregates.ShipmentCostPerContainer)
	summary.ImporterNames = stats.DistinctNames
	summary.ImporterClusters = stats.Clusters
	summary.ReportFile = reportName

	s.logger.InfoContext(ctx, "analysis run completed",
		slog.Int("records", summary.Records),
		slog.Int("containers", summary.Containers),
		slog.Int("files_accepted", summary.FilesAccepted),
		slog.Int("files_skipped", summary.FilesSkipped),
		slog.String("report_file", reportName),
		slog.Duration("duration", time.Since(started)))

	return &AnalysisResult{
		Summary:    summary,
		Aggregates: aggregates,
		Workbook:   workbook,
	}, nil
}

// ExportAggregateCSVs writes the four aggregate tables as CSV files in the
// reports directory and returns the written file names.
func (s *AnalysisService) ExportAggregateCSVs(ctx context.Context, set *domain.AggregateSet) ([]string, error) {
	if set == nil {
		return nil, apperrors.ErrAnalysisFailed
	}

	written, err := s.csv.ExportAggregates(set)
	if err != nil {
		logAnalysisError(ctx, "export_csv", "Failed to export aggregate CSVs",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrReportWriteFailed, err)
	}

	s.logger.InfoContext(ctx, "aggregate CSVs exported",
		slog.Int("files", len(written)))
	return written, nil
}

func (s *AnalysisService) reportFileName() string {
	if name := s.config.Analysis.ReportFileName; name != "" {
		return name
	}
	return exporter.DefaultReportName
}
