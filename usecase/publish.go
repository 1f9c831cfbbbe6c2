package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/pkg/metrics"
	"github.com/AzielCF/daily-post/pkg/timeutils"
	"github.com/AzielCF/daily-post/validations"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DryRunMessage = "Dry-run mode enabled. Publish not executed."

	reasonPublishFailed   = "Publish failed"
	reasonScheduledPosted = "Scheduled post published"
	reasonManualPosted    = "Manual publish completed"
)

// PublishDeps wires the coordinator.
type PublishDeps struct {
	Ledger    domainPublish.IRunLedger
	Content   domainPublish.IContentProvider
	Primary   domainPublish.IPrimaryPublisher
	Secondary domainPublish.ISecondaryPublisher
	Notifier  domainPublish.INotifier
	Location  *time.Location
	DryRun    bool
	Clock     func() time.Time
	Metrics   *metrics.Collector
}

type publishService struct {
	deps PublishDeps
}

func NewPublishService(deps PublishDeps) domainPublish.IPublishUsecase {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Notifier == nil {
		deps.Notifier = silentNotifier{}
	}
	return &publishService{deps: deps}
}

type silentNotifier struct{}

func (silentNotifier) NotifySuccess(context.Context, domainPublish.SuccessAlert) error { return nil }

func (silentNotifier) NotifyFailure(context.Context, domainPublish.FailureAlert) error { return nil }

// Run performs at most one publish attempt for a date. Platform failures are
// recorded in the ledger and reported in the result; only precondition,
// content and ledger errors are returned as errors.
func (s *publishService) Run(ctx context.Context, request domainPublish.RunRequest) (domainPublish.PublishResult, error) {
	started := time.Now()
	mode := request.Mode
	if mode == "" {
		mode = domainPublish.ModeManual
	}

	log := logrus.WithFields(logrus.Fields{
		"attempt_id": uuid.NewString(),
		"mode":       mode,
		"force":      request.Force,
	})

	runDate := strings.TrimSpace(request.RunDate)
	if runDate == "" {
		runDate = timeutils.RunDateFor(s.deps.Clock(), s.deps.Location)
	} else if err := validations.ValidateRunDate(ctx, runDate); err != nil {
		return domainPublish.PublishResult{}, err
	}
	log = log.WithField("run_date", runDate)

	existing, err := s.deps.Ledger.Get(ctx, runDate)
	if err != nil {
		return domainPublish.PublishResult{}, fmt.Errorf("failed to read run ledger for %s: %w", runDate, err)
	}

	if existing != nil && !request.Force && existing.Status != domainPublish.StatusFailed {
		log.WithField("status", existing.Status).Info("[PUBLISH] already processed, skipping")
		s.deps.Metrics.ObserveRun(string(domainPublish.StatusSkipped), string(mode), time.Since(started))
		return domainPublish.PublishResult{
			Status:          domainPublish.StatusSkipped,
			RunDate:         runDate,
			Weekday:         existing.Weekday,
			Reason:          fmt.Sprintf("Already processed for %s", runDate),
			PrimaryMediaID:  existing.PrimaryMediaID,
			SecondaryPostID: existing.SecondaryPostID,
			ErrorMessage:    existing.ErrorMessage,
			ExistingRun:     existing,
		}, nil
	}

	payload, err := s.deps.Content.BuildPayload(ctx, runDate)
	if err != nil {
		return domainPublish.PublishResult{}, err
	}

	// Outcomes are recorded even when the caller has gone away.
	recordCtx := context.WithoutCancel(ctx)

	if s.deps.DryRun {
		message := DryRunMessage
		_, err := s.deps.Ledger.Upsert(recordCtx, domainPublish.UpsertRunInput{
			RunDate:      runDate,
			Weekday:      payload.Weekday,
			Status:       domainPublish.StatusSkipped,
			ErrorMessage: &message,
		})
		if err != nil {
			return domainPublish.PublishResult{}, fmt.Errorf("failed to record dry run for %s: %w", runDate, err)
		}
		log.Info("[PUBLISH] dry run, nothing published")
		s.deps.Metrics.ObserveRun(string(domainPublish.StatusSkipped), string(mode), time.Since(started))
		return domainPublish.PublishResult{
			Status:      domainPublish.StatusSkipped,
			RunDate:     runDate,
			Weekday:     payload.Weekday,
			Reason:      DryRunMessage,
			Payload:     &payload,
			ExistingRun: existing,
		}, nil
	}

	var (
		primaryID   *string
		secondaryID *string
		failure     string
	)

	mediaID, err := s.deps.Primary.PublishPrimary(ctx, payload)
	if err != nil {
		failure = "Instagram publish failed: " + err.Error()
	} else {
		primaryID = &mediaID
		postID, err := s.deps.Secondary.PublishSecondary(ctx, payload)
		if err != nil {
			failure = "Facebook publish failed: " + err.Error()
		} else {
			secondaryID = &postID
		}
	}

	if failure != "" {
		_, err := s.deps.Ledger.Upsert(recordCtx, domainPublish.UpsertRunInput{
			RunDate:        runDate,
			Weekday:        payload.Weekday,
			Status:         domainPublish.StatusFailed,
			PrimaryMediaID: primaryID,
			ErrorMessage:   &failure,
		})
		if err != nil {
			return domainPublish.PublishResult{}, fmt.Errorf("failed to record failed run for %s: %w", runDate, err)
		}
		log.WithField("error_message", failure).Error("[PUBLISH] publish failed")

		if err := s.deps.Notifier.NotifyFailure(recordCtx, domainPublish.FailureAlert{
			RunDate:      runDate,
			Weekday:      payload.Weekday,
			Reason:       reasonPublishFailed,
			ErrorMessage: failure,
		}); err != nil {
			log.WithError(err).Warn("[PUBLISH] failure alert not sent")
		}

		s.deps.Metrics.ObserveRun(string(domainPublish.StatusFailed), string(mode), time.Since(started))
		return domainPublish.PublishResult{
			Status:         domainPublish.StatusFailed,
			RunDate:        runDate,
			Weekday:        payload.Weekday,
			Reason:         reasonPublishFailed,
			PrimaryMediaID: primaryID,
			ErrorMessage:   &failure,
			Payload:        &payload,
			ExistingRun:    existing,
		}, nil
	}

	_, err = s.deps.Ledger.Upsert(recordCtx, domainPublish.UpsertRunInput{
		RunDate:         runDate,
		Weekday:         payload.Weekday,
		Status:          domainPublish.StatusPosted,
		PrimaryMediaID:  primaryID,
		SecondaryPostID: secondaryID,
	})
	if err != nil {
		return domainPublish.PublishResult{}, fmt.Errorf("failed to record posted run for %s: %w", runDate, err)
	}
	log.WithFields(logrus.Fields{"media_id": *primaryID, "post_id": *secondaryID}).Info("[PUBLISH] posted")

	if err := s.deps.Notifier.NotifySuccess(recordCtx, domainPublish.SuccessAlert{
		RunDate:         runDate,
		Weekday:         payload.Weekday,
		PrimaryMediaID:  *primaryID,
		SecondaryPostID: *secondaryID,
		Mode:            mode,
	}); err != nil {
		log.WithError(err).Warn("[PUBLISH] success alert not sent")
	}

	reason := reasonManualPosted
	if mode == domainPublish.ModeCron {
		reason = reasonScheduledPosted
	}

	s.deps.Metrics.ObserveRun(string(domainPublish.StatusPosted), string(mode), time.Since(started))
	return domainPublish.PublishResult{
		Status:          domainPublish.StatusPosted,
		RunDate:         runDate,
		Weekday:         payload.Weekday,
		Reason:          reason,
		PrimaryMediaID:  primaryID,
		SecondaryPostID: secondaryID,
		Payload:         &payload,
		ExistingRun:     existing,
	}, nil
}
