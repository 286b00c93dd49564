package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"cargolens/internal/infrastructure"
)

// Problem represents an RFC 7807 problem details object
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Trace  string `json:"trace_id,omitempty"`
}

// Render writes the problem as application/problem+json
func (p Problem) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	return json.NewEncoder(w).Encode(p)
}

// Common error types surfaced by middleware
var (
	ErrNotFound           = errors.New("resource not found")
	ErrBadRequest         = errors.New("bad request")
	ErrInternalServer     = errors.New("internal server error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrRequestTimeout     = errors.New("request timeout")
)

// NewErrorResponder creates a function that writes RFC 7807 error responses
func NewErrorResponder(logger *slog.Logger) func(w http.ResponseWriter, r *http.Request, err error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		ctx := r.Context()
		traceID := infrastructure.GetTraceID(ctx)

		logger.ErrorContext(ctx, "request error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"trace_id", traceID,
		)

		mapErrorToProblem(err, traceID).Render(w, r)
	}
}

// mapErrorToProblem maps middleware errors to RFC 7807 problem details
func mapErrorToProblem(err error, traceID string) Problem {
	switch {
	case errors.Is(err, ErrNotFound):
		return ProblemFromStatus(http.StatusNotFound, err.Error(), traceID)
	case errors.Is(err, ErrBadRequest):
		return ProblemFromStatus(http.StatusBadRequest, err.Error(), traceID)
	case errors.Is(err, ErrServiceUnavailable):
		return ProblemFromStatus(http.StatusServiceUnavailable, "The service is temporarily unavailable", traceID)
	case errors.Is(err, ErrRateLimitExceeded):
		return ProblemFromStatus(http.StatusTooManyRequests, "Rate limit exceeded. Please retry later", traceID)
	case errors.Is(err, ErrRequestTimeout):
		return ProblemFromStatus(http.StatusGatewayTimeout, "The request took too long to process", traceID)
	}
	return ProblemFromStatus(http.StatusInternalServerError, "An unexpected error occurred", traceID)
}

// ProblemFromStatus creates a Problem from an HTTP status code
func ProblemFromStatus(status int, detail string, traceID string) Problem {
	var title, problemType string

	switch status {
	case http.StatusBadRequest:
		title = "Bad Request"
		problemType = "/errors/bad-request"
	case http.StatusNotFound:
		title = "Not Found"
		problemType = "/errors/not-found"
	case http.StatusMethodNotAllowed:
		title = "Method Not Allowed"
		problemType = "/errors/method-not-allowed"
	case http.StatusRequestEntityTooLarge:
		title = "Payload Too Large"
		problemType = "/errors/payload-too-large"
	case http.StatusUnprocessableEntity:
		title = "Unprocessable Entity"
		problemType = "/errors/unprocessable-entity"
	case http.StatusTooManyRequests:
		title = "Too Many Requests"
		problemType = "/errors/rate-limit-exceeded"
	case http.StatusInternalServerError:
		title = "Internal Server Error"
		problemType = "/errors/internal-server-error"
	case http.StatusServiceUnavailable:
		title = "Service Unavailable"
		problemType = "/errors/service-unavailable"
	case http.StatusGatewayTimeout:
		title = "Gateway Timeout"
		problemType = "/errors/gateway-timeout"
	default:
		title = http.StatusText(status)
		problemType = "/errors/unknown"
	}

	return Problem{
		Type:   problemType,
		Title:  title,
		Status: status,
		Detail: detail,
		Trace:  traceID,
	}
}
