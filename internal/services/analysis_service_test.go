package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cargolens/internal/config"
	"cargolens/internal/dataprocessing"
	apperrors "cargolens/internal/errors"
	"cargolens/internal/exporter"
	"cargolens/internal/shared/testutil"
)

// testConfig returns a config rooted in a throwaway directory so each
// test gets its own data and reports tree.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.ExecutableDir = t.TempDir()
	return cfg
}

func newTestAnalysisService(t *testing.T) *AnalysisService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc, err := NewAnalysisServiceWithLogger(testConfig(t), logger)
	require.NoError(t, err)
	return svc
}

// csvInput builds a named csv source in the export layout: banner row,
// then a header with the leading index column.
func csvInput(name string, lines ...string) dataprocessing.Input {
	rows := append([]string{
		"Tradesparq Export",
		"#,Importer,Date,Master Bill Number,Quantity,Value(USD),Unit Price(USD),Description",
	}, lines...)
	return dataprocessing.Input{Name: name, Reader: strings.NewReader(strings.Join(rows, "\n"))}
}

func TestNewAnalysisServiceWithLogger(t *testing.T) {
	t.Run("resolves paths", func(t *testing.T) {
		svc := newTestAnalysisService(t)
		require.NotNil(t, svc.Paths())
		assert.NotEmpty(t, svc.Paths().ReportsDir)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		svc, err := NewAnalysisServiceWithLogger(testConfig(t), nil)
		require.NoError(t, err)
		assert.NotNil(t, svc.logger)
	})
}

func TestAnalysisService_Analyze(t *testing.T) {
	svc := newTestAnalysisService(t)

	result, err := svc.Analyze(context.Background(), []dataprocessing.Input{
		csvInput("january.csv",
			"1,Acme Corp Ltd,2024-01-05,MB100,1000,5000,5,Shoes",
			"2,Ltd Acme Corp,2024-01-05,MB100,500,2000,4,Bags"),
		csvInput("february.csv",
			"1,Globex Inc,2024-02-10,MB200,200,800,4,Toys"),
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	summary := result.Summary
	assert.Equal(t, 2, summary.FilesReceived)
	assert.Equal(t, 2, summary.FilesAccepted)
	assert.Equal(t, 0, summary.FilesSkipped)
	assert.Equal(t, 3, summary.Records)
	require.Len(t, summary.Files, 2)
	assert.Equal(t, "january.csv", summary.Files[0].FileName)

	// "Acme Corp Ltd" and "Ltd Acme Corp" cluster; first spelling wins.
	assert.Equal(t, 3, summary.ImporterNames)
	assert.Equal(t, 2, summary.ImporterClusters)

	// MB100 rows share one container, MB200 gets its own.
	assert.Equal(t, 2, summary.Containers)

	require.NotNil(t, result.Aggregates)
	assert.Len(t, result.Aggregates.ShipmentCostPerContainer, 2)
	assert.Len(t, result.Aggregates.TotalValuePerImporter, 2)

	assert.NotEmpty(t, result.Workbook)
	assert.Equal(t, "Container_Analysis_Report.xlsx", summary.ReportFile)
	assert.True(t, config.FileExists(svc.Paths().GetReportPath(summary.ReportFile)))
}

func TestAnalysisService_Analyze_SynthesizesMissingBills(t *testing.T) {
	svc := newTestAnalysisService(t)

	// One file with a real bill, one with the stringified-null marker:
	// the second row gets a synthesized "{IMPORTER} {MONTHDAY}" container.
	result, err := svc.Analyze(context.Background(), []dataprocessing.Input{
		csvInput("with-bill.csv",
			"1,Acme Corp Ltd,2024-01-05,MB1,10,500,5,Shoes"),
		csvInput("no-bill.csv",
			"1,Acme Corp Ltd,2024-01-05,nan,10,200,4,Bags"),
	})
	require.NoError(t, err)
	require.Len(t, result.Aggregates.ShipmentCostPerContainer, 2)

	f, err := excelize.OpenReader(bytes.NewReader(result.Workbook))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exporter.SheetShipmentCost)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Descending by cost: the real bill (500) ahead of the synthesized
	// container (200).
	assert.Equal(t, "MB1", rows[1][0])
	assert.Equal(t, "ACME CORP LTD JANUARY05", rows[2][0])
}

func TestAnalysisService_Analyze_NoInputs(t *testing.T) {
	svc := newTestAnalysisService(t)

	result, err := svc.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrNoFilesProvided)
	assert.Nil(t, result)
}

func TestAnalysisService_Analyze_AllFilesRejected(t *testing.T) {
	svc := newTestAnalysisService(t)

	result, err := svc.Analyze(context.Background(), []dataprocessing.Input{
		{Name: "wrong.csv", Reader: strings.NewReader("banner\n#,Only,Two\n1,a,b")},
	})
	assert.ErrorIs(t, err, apperrors.ErrNoValidFiles)

	// The summary still reports what went wrong with each file.
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Summary.FilesReceived)
	assert.Equal(t, 0, result.Summary.FilesAccepted)
	require.Len(t, result.Summary.Files, 1)
	assert.Contains(t, result.Summary.Files[0].Reason, "missing required columns")
}

func TestAnalysisService_ExportAggregateCSVs(t *testing.T) {
	svc := newTestAnalysisService(t)

	result, err := svc.Analyze(context.Background(), []dataprocessing.Input{
		csvInput("batch.csv",
			"1,Acme Corp,2024-01-05,MB100,1000,5000,5,Shoes"),
	})
	require.NoError(t, err)

	written, err := svc.ExportAggregateCSVs(context.Background(), result.Aggregates)
	require.NoError(t, err)
	require.Len(t, written, 4)
	for _, name := range written {
		assert.True(t, config.FileExists(svc.Paths().GetReportPath(name)), name)
	}
}

func TestAnalysisService_ExportAggregateCSVs_NilSet(t *testing.T) {
	svc := newTestAnalysisService(t)

	written, err := svc.ExportAggregateCSVs(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrAnalysisFailed)
	assert.Nil(t, written)
}
