package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Analysis-specific errors (using errors package for sentinel errors)
var (
	ErrNoFilesProvided       = errors.New("no files provided")
	ErrNoValidFiles          = errors.New("no valid files")
	ErrTooManyFiles          = errors.New("too many files")
	ErrFileTooLarge          = errors.New("file too large")
	ErrUnsupportedFileFormat = errors.New("unsupported file format")
	ErrReportNotFound        = errors.New("report not found")
	ErrAnalysisFailed        = errors.New("analysis failed")
	ErrReportWriteFailed     = errors.New("report write failed")
)

// AnalysisRunDetails provides additional context for analysis errors
type AnalysisRunDetails struct {
	FileName       string   `json:"file_name,omitempty"`
	FilesReceived  int      `json:"files_received,omitempty"`
	FilesAccepted  int      `json:"files_accepted,omitempty"`
	MaxFiles       int      `json:"max_files,omitempty"`
	MaxFileBytes   int64    `json:"max_file_bytes,omitempty"`
	AllowedFormats []string `json:"allowed_formats,omitempty"`
	SkippedFiles   []string `json:"skipped_files,omitempty"`
	Reason         string   `json:"reason,omitempty"`
}

// NewNoValidFilesError creates an error for runs where every file was rejected
func NewNoValidFilesError(details *AnalysisRunDetails, traceID string) *ProblemDetails {
	problem := NewProblemDetails(
		http.StatusUnprocessableEntity,
		"/errors/no-valid-files",
		"No Valid Files",
		"None of the provided files contained usable shipment data. Check that each file has the expected header row and required columns.",
		fmt.Sprintf("/api/analyze#%s", traceID),
	)

	problem.WithExtension("error_type", "no_valid_files").
		WithExtension("trace_id", traceID)

	if details != nil {
		if details.FilesReceived > 0 {
			problem.WithExtension("files_received", details.FilesReceived)
		}
		if len(details.SkippedFiles) > 0 {
			problem.WithExtension("skipped_files", details.SkippedFiles)
		}
		if details.Reason != "" {
			problem.WithExtension("reason", details.Reason)
		}
	}

	return problem
}

// NewUnsupportedFormatError creates an error for files with an unrecognized extension
func NewUnsupportedFormatError(details *AnalysisRunDetails, traceID string) *ProblemDetails {
	problem := NewProblemDetails(
		http.StatusUnsupportedMediaType,
		"/errors/unsupported-file-format",
		"Unsupported File Format",
		"One of the provided files is not a supported spreadsheet format.",
		fmt.Sprintf("/api/analyze#%s", traceID),
	)

	problem.WithExtension("error_type", "unsupported_file_format").
		WithExtension("trace_id", traceID)

	if details != nil {
		if details.FileName != "" {
			problem.WithExtension("file_name", details.FileName)
		}
		if len(details.AllowedFormats) > 0 {
			problem.WithExtension("allowed_formats", details.AllowedFormats)
		}
	}

	return problem
}

// NewFileTooLargeError creates an error for uploads exceeding the size limit
func NewFileTooLargeError(details *AnalysisRunDetails, traceID string) *ProblemDetails {
	problem := NewProblemDetails(
		http.StatusRequestEntityTooLarge,
		"/errors/file-too-large",
		"File Too Large",
		"One of the provided files exceeds the maximum allowed size.",
		fmt.Sprintf("/api/analyze#%s", traceID),
	)

	problem.WithExtension("error_type", "file_too_large").
		WithExtension("trace_id", traceID)

	if details != nil {
		if details.FileName != "" {
			problem.WithExtension("file_name", details.FileName)
		}
		if details.MaxFileBytes > 0 {
			problem.WithExtension("max_file_bytes", details.MaxFileBytes)
		}
	}

	return problem
}

// MapAnalysisError maps domain errors to HTTP problem details
func MapAnalysisError(err error, traceID string) render.Renderer {
	instance := fmt.Sprintf("/api/analyze#trace-%s", traceID)

	switch {
	case errors.Is(err, ErrNoFilesProvided):
		return NewProblemDetails(
			http.StatusBadRequest,
			"/errors/no-files-provided",
			"No Files Provided",
			"The request did not include any spreadsheet files. Attach at least one file and try again.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "NO_FILES_PROVIDED")

	case errors.Is(err, ErrTooManyFiles):
		return NewProblemDetails(
			http.StatusBadRequest,
			"/errors/too-many-files",
			"Too Many Files",
			"The request includes more files than a single analysis run accepts.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "TOO_MANY_FILES")

	case errors.Is(err, ErrFileTooLarge):
		return NewFileTooLargeError(nil, traceID)

	case errors.Is(err, ErrUnsupportedFileFormat):
		return NewUnsupportedFormatError(nil, traceID)

	case errors.Is(err, ErrNoValidFiles):
		return NewNoValidFilesError(nil, traceID)

	case errors.Is(err, ErrReportNotFound):
		return NewProblemDetails(
			http.StatusNotFound,
			"/errors/report-not-found",
			"Report Not Found",
			"No analysis report with that name exists. Run an analysis first.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "REPORT_NOT_FOUND")

	case errors.Is(err, ErrReportWriteFailed):
		return NewProblemDetails(
			http.StatusInternalServerError,
			"/errors/report-write-failed",
			"Report Write Failed",
			"The analysis completed but the report file could not be written.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "REPORT_WRITE_FAILED")

	case errors.Is(err, ErrAnalysisFailed):
		return NewProblemDetails(
			http.StatusInternalServerError,
			"/errors/analysis-failed",
			"Analysis Failed",
			"The analysis run failed. Please try again.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "ANALYSIS_FAILED")

	default:
		// Generic error
		return NewProblemDetails(
			http.StatusInternalServerError,
			"/errors/internal-error",
			"Internal Server Error",
			"An unexpected error occurred while processing your request.",
			instance,
		).WithExtension("trace_id", traceID).
			WithExtension("error_code", "INTERNAL_ERROR")
	}
}
