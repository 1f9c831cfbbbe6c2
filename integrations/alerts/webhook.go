package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/pkg/metrics"
	"github.com/AzielCF/daily-post/pkg/msgworker"
	"github.com/sirupsen/logrus"
)

const (
	EventPublishSucceeded = "publish_succeeded"
	EventPublishFailed    = "publish_failed"

	httpTimeout = 10 * time.Second
)

var httpClient = &http.Client{Timeout: httpTimeout}

// Event is the JSON body posted to the alert webhook.
type Event struct {
	Event            string `json:"event"`
	Service          string `json:"service"`
	RunDate          string `json:"run_date"`
	WeekdayKey       string `json:"weekday_key"`
	Mode             string `json:"mode,omitempty"`
	InstagramMediaID string `json:"instagram_media_id,omitempty"`
	FacebookPostID   string `json:"facebook_post_id,omitempty"`
	Reason           string `json:"reason,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
	Timestamp        string `json:"timestamp"`
}

// WebhookNotifier posts run outcomes to an HTTP endpoint. Deliveries run on
// the worker pool when one is set, otherwise inline.
type WebhookNotifier struct {
	url     string
	service string
	pool    *msgworker.Pool
	metrics *metrics.Collector
	now     func() time.Time
}

func NewWebhookNotifier(url, service string, pool *msgworker.Pool, collector *metrics.Collector) *WebhookNotifier {
	if service == "" {
		service = "daily-post"
	}
	return &WebhookNotifier{
		url:     strings.TrimSpace(url),
		service: service,
		pool:    pool,
		metrics: collector,
		now:     time.Now,
	}
}

func (n *WebhookNotifier) NotifySuccess(ctx context.Context, alert domainPublish.SuccessAlert) error {
	return n.dispatch(ctx, Event{
		Event:            EventPublishSucceeded,
		RunDate:          alert.RunDate,
		WeekdayKey:       string(alert.Weekday),
		Mode:             string(alert.Mode),
		InstagramMediaID: alert.PrimaryMediaID,
		FacebookPostID:   alert.SecondaryPostID,
	})
}

func (n *WebhookNotifier) NotifyFailure(ctx context.Context, alert domainPublish.FailureAlert) error {
	return n.dispatch(ctx, Event{
		Event:        EventPublishFailed,
		RunDate:      alert.RunDate,
		WeekdayKey:   string(alert.Weekday),
		Reason:       alert.Reason,
		ErrorMessage: alert.ErrorMessage,
	})
}

func (n *WebhookNotifier) dispatch(ctx context.Context, event Event) error {
	if n.url == "" {
		return nil
	}
	event.Service = n.service
	event.Timestamp = n.now().UTC().Format(time.RFC3339)

	if n.pool == nil {
		return n.deliver(ctx, event)
	}

	ok := n.pool.TryDispatch(msgworker.Job{
		Key:  event.RunDate,
		Name: event.Event,
		Handler: func(jobCtx context.Context) error {
			return n.deliver(jobCtx, event)
		},
	})
	if !ok {
		n.metrics.AlertDispatched(event.Event, "dropped")
		return fmt.Errorf("alert queue rejected %s for %s", event.Event, event.RunDate)
	}
	return nil
}

// deliver performs one POST and records its outcome.
func (n *WebhookNotifier) deliver(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		n.metrics.AlertDispatched(event.Event, "error")
		logrus.WithError(err).WithField("run_date", event.RunDate).Warnf("[ALERT] %s delivery failed", event.Event)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		n.metrics.AlertDispatched(event.Event, "error")
		logrus.WithField("run_date", event.RunDate).Warnf("[ALERT] %s rejected: status=%d body=%s", event.Event, resp.StatusCode, string(data))
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}

	n.metrics.AlertDispatched(event.Event, "delivered")
	logrus.WithField("run_date", event.RunDate).Debugf("[ALERT] %s delivered", event.Event)
	return nil
}

// NoopNotifier is used when no alert endpoint is configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifySuccess(context.Context, domainPublish.SuccessAlert) error { return nil }

func (NoopNotifier) NotifyFailure(context.Context, domainPublish.FailureAlert) error { return nil }
