package errors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargolens/internal/infrastructure"
	"cargolens/internal/shared/testutil"
)

func TestRecoveryMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		shouldPanic bool
		wantStatus  int
	}{
		{
			name: "normal request without panic",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("success"))
			},
			shouldPanic: false,
			wantStatus:  http.StatusOK,
		},
		{
			name: "request that panics with string",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("something went wrong")
			},
			shouldPanic: true,
			wantStatus:  http.StatusInternalServerError,
		},
		{
			name: "request that panics with error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic(assert.AnError)
			},
			shouldPanic: true,
			wantStatus:  http.StatusInternalServerError,
		},
		{
			name: "request that panics with integer",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic(42)
			},
			shouldPanic: true,
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logHandler := testutil.NewTestLogger(t)
			errorHandler := NewErrorHandler(logger, false)

			h := RecoveryMiddleware(errorHandler)(tt.handler)

			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/api/analyze", nil)
			ctx := context.WithValue(r.Context(), middleware.RequestIDKey, "test-request-id")
			r = r.WithContext(ctx)

			h.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.shouldPanic {
				assert.True(t, logHandler.ContainsMessage("panic recovered"))

				// Response must be a JSON problem, not a bare 500
				assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

				var body map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&body)
				require.NoError(t, err)

				assert.Equal(t, TypeInternal, body["type"])
				assert.Equal(t, "Internal Server Error", body["title"])
				assert.EqualValues(t, http.StatusInternalServerError, body["status"])
				assert.Equal(t, "An unexpected error occurred", body["detail"])
				assert.Equal(t, "test-request-id", body["trace_id"])
			}
		})
	}
}

func TestRecoveryMiddleware_TraceIDFromLoggingContext(t *testing.T) {
	// The production router carries its correlation id as the logging
	// trace id, not chi's request id. The panic response must still pick
	// it up.
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := NewErrorHandler(logger, false)

	h := RecoveryMiddleware(errorHandler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/analyze", nil)
	r = r.WithContext(infrastructure.WithTraceID(r.Context(), "trace-abc-123"))

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "trace-abc-123", body["trace_id"])
}

func TestRecoveryMiddleware_DevelopmentStack(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := NewErrorHandler(logger, true)

	h := RecoveryMiddleware(errorHandler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("dev panic")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "dev panic", body["panic"])
	assert.Contains(t, body, "stack")
}
