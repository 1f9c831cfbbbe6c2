package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/AzielCF/daily-post/core/config"
	"github.com/AzielCF/daily-post/core/database"
	"github.com/AzielCF/daily-post/domains/health"
	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	pkgError "github.com/AzielCF/daily-post/pkg/error"
	"github.com/AzielCF/daily-post/pkg/timeutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewService_Preview(t *testing.T) {
	loc, err := time.LoadLocation("America/Toronto")
	require.NoError(t, err)

	ledger := newMemoryLedger()
	ledger.rows["2026-03-02"] = domainPublish.RunRecord{RunDate: "2026-03-02", Status: domainPublish.StatusPosted}
	content := NewContentService(defaultTemplateSet(), ContentOptions{PublicBaseURL: "https://example.com"})

	svc := NewPreviewService(content, ledger, loc, 8, true).(*previewService)
	svc.clock = func() time.Time { return time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC) }

	preview, err := svc.Preview(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", preview.RunDate)
	assert.Equal(t, timeutils.Monday, preview.Payload.Weekday)
	assert.Len(t, preview.Payload.MediaURLs, 3)
	assert.True(t, preview.DryRun)
	require.NotNil(t, preview.ExistingRun)
	assert.Equal(t, domainPublish.StatusPosted, preview.ExistingRun.Status)
	require.NotNil(t, preview.NextWindow)
	assert.Equal(t, time.Date(2026, 3, 3, 13, 0, 0, 0, time.UTC), preview.NextWindow.UTC())

	preview, err = svc.Preview(context.Background(), "2026-03-07")
	require.NoError(t, err)
	assert.Equal(t, timeutils.Saturday, preview.Payload.Weekday)
	assert.Nil(t, preview.ExistingRun)
	assert.Empty(t, ledger.upserts)

	_, err = svc.Preview(context.Background(), "tomorrow")
	var validationErr pkgError.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRunsService(t *testing.T) {
	ctx := context.Background()
	ledger := newMemoryLedger()
	ledger.rows["2026-03-01"] = domainPublish.RunRecord{RunDate: "2026-03-01"}
	ledger.rows["2026-03-02"] = domainPublish.RunRecord{RunDate: "2026-03-02"}
	svc := NewRunsService(ledger)

	runs, err := svc.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	deleted, err := svc.Delete(ctx, "2026-03-01")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, "2026-03-01")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.Delete(ctx, "")
	var validationErr pkgError.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	count, err := svc.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthService_GetStatus(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", Name: filepath.Join(t.TempDir(), "health.db")}, false)
	require.NoError(t, err)

	cfg := &config.Config{
		Runtime: config.RuntimeConfig{DryRun: true, AlertWebhookURL: "https://hooks.example.com"},
		Meta:    config.MetaConfig{FBPageID: "123", IGAccessToken: "token"},
	}

	report, err := NewHealthService(db, nil, cfg).GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, health.StatusOk, report.Status)
	assert.Equal(t, health.StatusOk, report.Database)
	assert.Equal(t, "disabled", report.Valkey)
	assert.True(t, report.DryRun)
	assert.True(t, report.AlertsConfigured)
	assert.True(t, report.FacebookConfigured)

	report, err = NewHealthService(db, stubPinger{err: errors.New("refused")}, cfg).GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, health.StatusOk, report.Status)
	assert.Equal(t, "unreachable", report.Valkey)

	report, err = NewHealthService(db, stubPinger{}, cfg).GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "connected", report.Valkey)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	report, err = NewHealthService(db, nil, cfg).GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, health.StatusError, report.Status)
	assert.Equal(t, health.StatusError, report.Database)
	assert.NotEmpty(t, report.DatabaseMessage)
}
