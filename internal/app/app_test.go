package app

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockreport/internal/domain/reports"
	"stockreport/pkg/config"
)

func TestNew_Demo(t *testing.T) {
	v := viper.New()
	v.Set("ARTIFACT_DIR", t.TempDir())
	v.Set("JWT_SECRET", "secret")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	a, err := New(context.Background(), cfg, true)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.DB)
	assert.NotNil(t, a.JWT)

	req := reports.Request{
		DateFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		Channels: reports.DefaultRequest(time.Now()).Channels,
	}
	res, err := a.Reports.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Products)
	assert.Contains(t, res.URL, "/api/v1/reports/stock-movement/"+res.ArtifactID+"/download")

	runs, err := a.Reports.History(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.ArtifactID, runs[0].ArtifactID)
}

func TestNew_DemoPDF(t *testing.T) {
	v := viper.New()
	v.Set("ARTIFACT_DIR", t.TempDir())
	v.Set("REPORT_FORMAT", config.FormatPDF)
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	a, err := New(context.Background(), cfg, true)
	require.NoError(t, err)
	defer a.Close()

	res, err := a.Reports.Generate(context.Background(), reports.Request{
		DateFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "Stock_Movement_Report_2024-01-01_2024-01-31.pdf", res.FileName)

	artifact, err := a.Reports.Open(context.Background(), res.ArtifactID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", artifact.ContentType)
}
