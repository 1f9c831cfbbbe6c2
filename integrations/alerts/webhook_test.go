package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/pkg/msgworker"
	"github.com/AzielCF/daily-post/pkg/timeutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type capturedAlert struct {
	URL  string
	Body map[string]any
}

func stubHTTP(t *testing.T, status int) (*[]capturedAlert, *sync.Mutex) {
	t.Helper()
	origClient := httpClient
	t.Cleanup(func() { httpClient = origClient })

	var (
		mu       sync.Mutex
		captured []capturedAlert
	)
	httpClient = &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		data, _ := io.ReadAll(req.Body)
		var body map[string]any
		_ = json.Unmarshal(data, &body)
		mu.Lock()
		captured = append(captured, capturedAlert{URL: req.URL.String(), Body: body})
		mu.Unlock()
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewReader([]byte(`{}`))),
			Header:     make(http.Header),
		}, nil
	})}
	return &captured, &mu
}

func fixedNow() time.Time { return time.Date(2026, 3, 2, 13, 5, 0, 0, time.UTC) }

func TestWebhookNotifier_FailureBody(t *testing.T) {
	captured, _ := stubHTTP(t, http.StatusOK)

	n := NewWebhookNotifier("https://hooks.test/alert", "social-admin", nil, nil)
	n.now = fixedNow

	err := n.NotifyFailure(context.Background(), domainPublish.FailureAlert{
		RunDate:      "2026-03-02",
		Weekday:      timeutils.Monday,
		Reason:       "Publish failed",
		ErrorMessage: "Instagram publish failed: boom",
	})
	require.NoError(t, err)
	require.Len(t, *captured, 1)

	got := (*captured)[0]
	assert.Equal(t, "https://hooks.test/alert", got.URL)
	assert.Equal(t, "publish_failed", got.Body["event"])
	assert.Equal(t, "social-admin", got.Body["service"])
	assert.Equal(t, "2026-03-02", got.Body["run_date"])
	assert.Equal(t, "monday", got.Body["weekday_key"])
	assert.Equal(t, "Publish failed", got.Body["reason"])
	assert.Equal(t, "Instagram publish failed: boom", got.Body["error_message"])
	assert.Equal(t, "2026-03-02T13:05:00Z", got.Body["timestamp"])
}

func TestWebhookNotifier_SuccessThroughPool(t *testing.T) {
	captured, mu := stubHTTP(t, http.StatusOK)

	pool := msgworker.NewPool(1, 4)
	pool.Start(context.Background())

	n := NewWebhookNotifier("https://hooks.test/alert", "", pool, nil)
	err := n.NotifySuccess(context.Background(), domainPublish.SuccessAlert{
		RunDate:         "2026-03-02",
		Weekday:         timeutils.Monday,
		PrimaryMediaID:  "ig-1",
		SecondaryPostID: "fb-1",
		Mode:            domainPublish.ModeCron,
	})
	require.NoError(t, err)

	pool.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *captured, 1)
	body := (*captured)[0].Body
	assert.Equal(t, "publish_succeeded", body["event"])
	assert.Equal(t, "daily-post", body["service"])
	assert.Equal(t, "ig-1", body["instagram_media_id"])
	assert.Equal(t, "fb-1", body["facebook_post_id"])
	assert.Equal(t, "cron", body["mode"])
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	stubHTTP(t, http.StatusBadGateway)

	n := NewWebhookNotifier("https://hooks.test/alert", "svc", nil, nil)
	err := n.NotifyFailure(context.Background(), domainPublish.FailureAlert{RunDate: "2026-03-02"})
	assert.Error(t, err)
}

func TestWebhookNotifier_NoURLIsNoop(t *testing.T) {
	captured, _ := stubHTTP(t, http.StatusOK)

	n := NewWebhookNotifier("  ", "svc", nil, nil)
	require.NoError(t, n.NotifySuccess(context.Background(), domainPublish.SuccessAlert{RunDate: "2026-03-02"}))
	assert.Empty(t, *captured)
}

func TestWebhookNotifier_StoppedPoolRejects(t *testing.T) {
	stubHTTP(t, http.StatusOK)

	pool := msgworker.NewPool(1, 1)
	pool.Start(context.Background())
	pool.Stop()

	n := NewWebhookNotifier("https://hooks.test/alert", "svc", pool, nil)
	err := n.NotifyFailure(context.Background(), domainPublish.FailureAlert{RunDate: "2026-03-02"})
	assert.Error(t, err)
}

func TestNoopNotifier(t *testing.T) {
	var n NoopNotifier
	assert.NoError(t, n.NotifySuccess(context.Background(), domainPublish.SuccessAlert{}))
	assert.NoError(t, n.NotifyFailure(context.Background(), domainPublish.FailureAlert{}))
}
