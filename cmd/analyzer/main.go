package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cargolens/internal/config"
	"cargolens/internal/dataprocessing"
	apperrors "cargolens/internal/errors"
	"cargolens/internal/files"
	"cargolens/internal/infrastructure"
	"cargolens/internal/services"
	"cargolens/internal/validation"
)

func main() {
	inDir := flag.String("in", "", "input directory scanned for manifest spreadsheets (defaults to data/uploads)")
	fileList := flag.String("files", "", "comma-separated manifest files to analyze in order (overrides -in)")
	outDir := flag.String("out", "", "output directory for the report (defaults to data/reports)")
	format := flag.String("format", "xlsx", "report format: xlsx or csv")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	flag.Parse()

	if *format != "xlsx" && *format != "csv" {
		fmt.Fprintf(os.Stderr, "unknown format %q (want xlsx or csv)\n", *format)
		os.Exit(2)
	}

	// Directory overrides go through the same envconfig layer as the
	// rest of the configuration, so config.Load stays the single path.
	if *outDir != "" {
		os.Setenv("CARGOLENS_PATHS_REPORTS_DIR", *outDir)
	}
	if *logLevel != "" {
		os.Setenv("CARGOLENS_LOGGING_LEVEL", *logLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *inDir == "" {
		*inDir = paths.UploadsDir
	}

	if err := run(context.Background(), cfg, paths, logger, *inDir, *fileList, *format); err != nil {
		if errors.Is(err, apperrors.ErrNoValidFiles) || errors.Is(err, apperrors.ErrNoFilesProvided) {
			logger.Error("No usable manifest files", slog.String("error", err.Error()))
		} else {
			logger.Error("Analysis failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger, inDir, fileList, format string) error {
	inputPaths, err := resolveInputPaths(inDir, fileList, logger)
	if err != nil {
		return err
	}
	if len(inputPaths) == 0 {
		return apperrors.ErrNoFilesProvided
	}

	inputs, closers, err := openInputs(inputPaths)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	service, err := services.NewAnalysisServiceWithLogger(cfg, logger)
	if err != nil {
		return err
	}

	result, err := service.Analyze(ctx, inputs)
	if err != nil {
		if result != nil {
			for _, report := range result.Summary.Files {
				logger.Warn("file rejected",
					slog.String("file", report.FileName),
					slog.String("reason", report.Reason))
			}
		}
		return err
	}

	if format == "csv" {
		written, err := service.ExportAggregateCSVs(ctx, result.Aggregates)
		if err != nil {
			return err
		}
		for _, name := range written {
			fmt.Println(paths.GetReportPath(name))
		}
		return nil
	}

	fmt.Println(paths.GetReportPath(result.Summary.ReportFile))
	logger.Info("analysis complete",
		slog.Int("records", result.Summary.Records),
		slog.Int("containers", result.Summary.Containers),
		slog.Int("files_accepted", result.Summary.FilesAccepted),
		slog.Int("files_skipped", result.Summary.FilesSkipped))
	return nil
}

// resolveInputPaths returns the manifest paths to analyze. An explicit
// -files list wins and keeps its order; otherwise the input directory is
// scanned and files are taken in name order so runs are deterministic.
func resolveInputPaths(inDir, fileList string, logger *slog.Logger) ([]string, error) {
	validator := validation.NewFileValidator(logger)

	if fileList != "" {
		var paths []string
		for _, p := range splitFileList(fileList) {
			if err := validator.ValidateSpreadsheetFile(p); err != nil {
				return nil, err
			}
			paths = append(paths, p)
		}
		return paths, nil
	}

	if err := validator.ValidateInputDirectory(inDir, ""); err != nil {
		return nil, err
	}

	discovery := files.NewDiscovery(inDir)
	found, err := discovery.FindSpreadsheetFiles(inDir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, f := range found {
		if err := validator.ValidateSpreadsheetFile(f.Path); err != nil {
			logger.Warn("skipping file",
				slog.String("file", f.Name),
				slog.String("reason", err.Error()))
			continue
		}
		paths = append(paths, f.Path)
	}
	return paths, nil
}

// splitFileList splits a comma-separated file list, trimming whitespace
// and dropping empty entries.
func splitFileList(list string) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// openInputs opens each path for reading, preserving order. On error all
// already-opened files are closed.
func openInputs(paths []string) ([]dataprocessing.Input, []*os.File, error) {
	var inputs []dataprocessing.Input
	var opened []*os.File
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			for _, o := range opened {
				o.Close()
			}
			return nil, nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		opened = append(opened, f)
		inputs = append(inputs, dataprocessing.Input{
			Name:   filepath.Base(p),
			Reader: f,
		})
	}
	return inputs, opened, nil
}
