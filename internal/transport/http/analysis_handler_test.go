package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargolens/internal/config"
	apierrors "cargolens/internal/errors"
	"cargolens/internal/dataprocessing"
	"cargolens/internal/services"
	"cargolens/internal/shared/testutil"
	"cargolens/pkg/contracts/domain"
)

type mockAnalysisService struct {
	result   *services.AnalysisResult
	err      error
	received []string
}

func (m *mockAnalysisService) Analyze(ctx context.Context, inputs []dataprocessing.Input) (*services.AnalysisResult, error) {
	for _, in := range inputs {
		m.received = append(m.received, in.Name)
		// Drain the reader the way the real parser would
		io.Copy(io.Discard, in.Reader)
	}
	return m.result, m.err
}

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxFileBytes:      1 << 20,
		MaxFiles:          5,
		AllowedExtensions: []string{".xlsx", ".xls", ".csv"},
	}
}

func multipartBody(t *testing.T, files map[string][]byte, order []string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range order {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(files[name])
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func successResult() *services.AnalysisResult {
	return &services.AnalysisResult{
		Summary: domain.AnalysisSummary{
			FilesReceived: 2,
			FilesAccepted: 2,
			Records:       7,
			Containers:    3,
			ReportFile:    "Container_Analysis_Report.xlsx",
			GeneratedAt:   time.Now().UTC(),
			Files: []domain.FileReport{
				{FileName: "a.xlsx", Status: domain.FileStatusOK, Rows: 4},
				{FileName: "b.csv", Status: domain.FileStatusOK, Rows: 3},
			},
		},
		Workbook: []byte("xlsx-bytes"),
	}
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	t.Run("success returns summary and download url", func(t *testing.T) {
		svc := &mockAnalysisService{result: successResult()}
		handler := NewAnalysisHandler(svc, testUploadConfig(), testValidator(t), logger)

		body, contentType := multipartBody(t,
			map[string][]byte{"a.xlsx": []byte("aa"), "b.csv": []byte("bb")},
			[]string{"a.xlsx", "b.csv"})
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Summary domain.AnalysisSummary `json:"summary"`
			Report  struct {
				Name        string `json:"name"`
				DownloadURL string `json:"download_url"`
			} `json:"report"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Summary.FilesAccepted)
		assert.Equal(t, "Container_Analysis_Report.xlsx", resp.Report.Name)
		assert.Equal(t, "/api/reports/Container_Analysis_Report.xlsx/download", resp.Report.DownloadURL)

		// Part order must survive into pipeline input order
		assert.Equal(t, []string{"a.xlsx", "b.csv"}, svc.received)
	})

	t.Run("no files yields 400 problem", func(t *testing.T) {
		svc := &mockAnalysisService{}
		handler := NewAnalysisHandler(svc, testUploadConfig(), testValidator(t), logger)

		body, contentType := multipartBody(t, nil, nil)
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "/errors/no-files-provided")
		assert.Empty(t, svc.received)
	})

	t.Run("unsupported extension yields 415 problem", func(t *testing.T) {
		svc := &mockAnalysisService{}
		handler := NewAnalysisHandler(svc, testUploadConfig(), testValidator(t), logger)

		body, contentType := multipartBody(t,
			map[string][]byte{"notes.pdf": []byte("pdf")},
			[]string{"notes.pdf"})
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Empty(t, svc.received)
	})

	t.Run("traversal-shaped part name yields 415 problem", func(t *testing.T) {
		svc := &mockAnalysisService{}
		handler := NewAnalysisHandler(svc, testUploadConfig(), testValidator(t), logger)

		// Slash-separated names are already reduced to their base by the
		// multipart reader; a Windows-style traversal name survives it.
		body, contentType := multipartBody(t,
			map[string][]byte{`..\evil.xlsx`: []byte("zz")},
			[]string{`..\evil.xlsx`})
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Empty(t, svc.received)
	})

	t.Run("too many files yields 400 problem", func(t *testing.T) {
		cfg := testUploadConfig()
		cfg.MaxFiles = 1
		svc := &mockAnalysisService{}
		handler := NewAnalysisHandler(svc, cfg, testValidator(t), logger)

		body, contentType := multipartBody(t,
			map[string][]byte{"a.xlsx": []byte("a"), "b.xlsx": []byte("b")},
			[]string{"a.xlsx", "b.xlsx"})
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "/errors/too-many-files")
	})

	t.Run("all files rejected yields 422 with per-file reports", func(t *testing.T) {
		svc := &mockAnalysisService{
			result: &services.AnalysisResult{
				Summary: domain.AnalysisSummary{
					FilesReceived: 1,
					FilesSkipped:  1,
					Files: []domain.FileReport{
						{FileName: "bad.xlsx", Status: domain.FileStatusWarning, Reason: "missing required columns"},
					},
				},
			},
			err: apierrors.ErrNoValidFiles,
		}
		handler := NewAnalysisHandler(svc, testUploadConfig(), testValidator(t), logger)

		body, contentType := multipartBody(t,
			map[string][]byte{"bad.xlsx": []byte("zz")},
			[]string{"bad.xlsx"})
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing required columns")
	})

	t.Run("report write failure yields 500 problem", func(t *testing.T) {
		svc := &mockAnalysisService{err: apierrors.ErrReportWriteFailed}
		handler := NewAnalysisHandler(svc, testUploadConfig(), testValidator(t), logger)

		body, contentType := multipartBody(t,
			map[string][]byte{"a.xlsx": []byte("aa")},
			[]string{"a.xlsx"})
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("non-multipart body yields 400", func(t *testing.T) {
		svc := &mockAnalysisService{}
		handler := NewAnalysisHandler(svc, testUploadConfig(), testValidator(t), logger)

		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReportDownloadURL(t *testing.T) {
	assert.Equal(t, "", reportDownloadURL(""))
	assert.Equal(t, "/api/reports/report.xlsx/download", reportDownloadURL("report.xlsx"))
	assert.Equal(t, "/api/reports/my%20report.xlsx/download", reportDownloadURL("my report.xlsx"))
}
