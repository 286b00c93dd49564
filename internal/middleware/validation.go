package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"cargolens/internal/config"
	apierrors "cargolens/internal/errors"
)

// ValidationMiddleware provides request validation using struct tags
type ValidationMiddleware struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ValidationMiddleware {
	v := validator.New()

	// Register custom validators
	v.RegisterValidation("iso8601", isISO8601)
	v.RegisterValidation("filename", isValidFilename)
	v.RegisterValidation("spreadsheet", isSpreadsheetName)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ValidationMiddleware{
		validator:    v,
		logger:       logger.With(slog.String("component", "validation_middleware")),
		errorHandler: errorHandler,
	}
}

// ValidateStruct validates a struct and returns validation errors
func (m *ValidationMiddleware) ValidateStruct(v interface{}) error {
	if err := m.validator.Struct(v); err != nil {
		var validationErrors []apierrors.ValidationError

		for _, err := range err.(validator.ValidationErrors) {
			ve := apierrors.ValidationError{
				Field:   err.Field(),
				Message: m.formatValidationError(err),
			}
			validationErrors = append(validationErrors, ve)
		}

		return apierrors.NewValidationErrors(validationErrors)
	}
	return nil
}

// UploadPolicy bounds a multipart upload batch per the upload config.
type UploadPolicy struct {
	MaxFiles     int
	MaxFileBytes int64
	Extensions   map[string]struct{}
}

// NewUploadPolicy builds an upload policy from configuration.
func NewUploadPolicy(cfg config.UploadConfig) UploadPolicy {
	extensions := make(map[string]struct{})
	for _, ext := range cfg.NormalizedExtensions() {
		extensions[ext] = struct{}{}
	}
	return UploadPolicy{
		MaxFiles:     cfg.MaxFiles,
		MaxFileBytes: cfg.MaxFileBytes,
		Extensions:   extensions,
	}
}

// MaxBodyBytes is the request body cap for the whole batch, with headroom
// for multipart framing.
func (p UploadPolicy) MaxBodyBytes() int64 {
	return int64(p.MaxFiles)*p.MaxFileBytes + 1<<20
}

// CheckCount validates the number of files in the batch.
func (p UploadPolicy) CheckCount(count int) error {
	if count == 0 {
		return apierrors.ErrNoFilesProvided
	}
	if p.MaxFiles > 0 && count > p.MaxFiles {
		return fmt.Errorf("%w: %d files exceeds limit of %d", apierrors.ErrTooManyFiles, count, p.MaxFiles)
	}
	return nil
}

// CheckFile validates one part's name and declared size.
func (p UploadPolicy) CheckFile(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := p.Extensions[ext]; !ok {
		return fmt.Errorf("%w: %s", apierrors.ErrUnsupportedFileFormat, name)
	}
	if p.MaxFileBytes > 0 && size > p.MaxFileBytes {
		return fmt.Errorf("%w: %s is %d bytes", apierrors.ErrFileTooLarge, name, size)
	}
	return nil
}

// ContentTypeValidator ensures requests have proper content type
func ContentTypeValidator(contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip for GET, HEAD, DELETE
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodDelete {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, apierrors.New(
					http.StatusBadRequest,
					"MISSING_CONTENT_TYPE",
					"Content-Type header is required",
				))
				return
			}

			valid := false
			for _, allowed := range contentTypes {
				if strings.HasPrefix(contentType, allowed) {
					valid = true
					break
				}
			}

			if !valid {
				render.Status(r, http.StatusUnsupportedMediaType)
				render.JSON(w, r, apierrors.NewWithDetails(
					http.StatusUnsupportedMediaType,
					"UNSUPPORTED_MEDIA_TYPE",
					"Unsupported content type",
					map[string]interface{}{
						"content_type": contentType,
						"allowed":      contentTypes,
					},
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// formatValidationError formats validation error messages
func (m *ValidationMiddleware) formatValidationError(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	param := err.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Replace(param, " ", ", ", -1))
	case "iso8601":
		return fmt.Sprintf("%s must be a valid ISO8601 date", field)
	case "filename":
		return fmt.Sprintf("%s must be a valid filename", field)
	case "spreadsheet":
		return fmt.Sprintf("%s must name a supported spreadsheet file", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

// Custom validators

// isISO8601 validates ISO8601 date format (YYYY-MM-DD)
func isISO8601(fl validator.FieldLevel) bool {
	date := fl.Field().String()
	if len(date) != 10 {
		return false
	}
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return false
	}
	return len(parts[0]) == 4 && len(parts[1]) == 2 && len(parts[2]) == 2
}

// isValidFilename validates filename format
func isValidFilename(fl validator.FieldLevel) bool {
	filename := fl.Field().String()
	if filename == "" {
		return false
	}
	// Prevent directory traversal
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		return false
	}
	return len(filename) <= 255
}

// isSpreadsheetName validates that a filename carries a supported
// spreadsheet extension
func isSpreadsheetName(fl validator.FieldLevel) bool {
	if !isValidFilename(fl) {
		return false
	}
	switch strings.ToLower(filepath.Ext(fl.Field().String())) {
	case ".xlsx", ".xlsm", ".xls", ".csv":
		return true
	}
	return false
}
