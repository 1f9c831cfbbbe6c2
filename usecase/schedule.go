package usecase

import (
	"context"
	"fmt"
	"time"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/pkg/timeutils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultLeaseTTL = 10 * time.Minute

// ScheduleOptions configures the scheduled trigger.
type ScheduleOptions struct {
	Location *time.Location
	PostHour int
	LeaseTTL time.Duration
	// LeaseKey maps a run date to the coordination key shared by all nodes.
	LeaseKey func(runDate string) string
}

type scheduleService struct {
	publisher domainPublish.IPublishUsecase
	leaser    domainPublish.ILeaser
	opts      ScheduleOptions
	owner     string
	clock     func() time.Time
}

// NewScheduleService builds the trigger. leaser may be nil, in which case the
// ledger alone prevents duplicate posts.
func NewScheduleService(publisher domainPublish.IPublishUsecase, leaser domainPublish.ILeaser, opts ScheduleOptions) domainPublish.IScheduleUsecase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.LeaseTTL <= 0 {
		opts.LeaseTTL = defaultLeaseTTL
	}
	if opts.LeaseKey == nil {
		opts.LeaseKey = func(runDate string) string { return "publish-lease:" + runDate }
	}
	return &scheduleService{
		publisher: publisher,
		leaser:    leaser,
		opts:      opts,
		owner:     uuid.NewString(),
		clock:     time.Now,
	}
}

// Tick evaluates the schedule window once and publishes when inside it.
func (s *scheduleService) Tick(ctx context.Context) (domainPublish.TickResult, error) {
	decision, err := timeutils.EvaluateWindow(s.clock(), s.opts.Location, s.opts.PostHour)
	if err != nil {
		return domainPublish.TickResult{}, err
	}

	tick := domainPublish.TickResult{Decision: decision}
	if !decision.ShouldRun {
		logrus.WithField("run_date", decision.RunDate).Debugf("[SCHEDULER] %s", decision.Reason)
		return tick, nil
	}

	if s.leaser != nil {
		key := s.opts.LeaseKey(decision.RunDate)
		acquired, err := s.leaser.AcquireLease(ctx, key, s.owner, s.opts.LeaseTTL)
		switch {
		case err != nil:
			logrus.WithError(err).Warn("[SCHEDULER] lease unavailable, relying on run ledger")
		case !acquired:
			tick.Skipped = fmt.Sprintf("Another node is publishing %s", decision.RunDate)
			logrus.WithField("run_date", decision.RunDate).Info("[SCHEDULER] lease held elsewhere, skipping")
			return tick, nil
		default:
			defer func() {
				if err := s.leaser.ReleaseLease(context.WithoutCancel(ctx), key, s.owner); err != nil {
					logrus.WithError(err).Warn("[SCHEDULER] failed to release lease")
				}
			}()
		}
	}

	result, err := s.publisher.Run(ctx, domainPublish.RunRequest{
		RunDate: decision.RunDate,
		Force:   false,
		Mode:    domainPublish.ModeCron,
	})
	if err != nil {
		return tick, err
	}
	tick.Result = &result
	return tick, nil
}

// StartLoop calls Tick every interval until ctx is done.
func (s *scheduleService) StartLoop(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logrus.Infof("[SCHEDULER] started, checking every %s", every)
	for {
		select {
		case <-ctx.Done():
			logrus.Info("[SCHEDULER] stopped")
			return
		case <-ticker.C:
			tick, err := s.Tick(ctx)
			if err != nil {
				logrus.WithError(err).Error("[SCHEDULER] Failed to run scheduled publish")
				continue
			}
			if tick.Result != nil {
				logrus.WithFields(logrus.Fields{
					"run_date": tick.Result.RunDate,
					"status":   tick.Result.Status,
				}).Infof("[SCHEDULER] %s", tick.Result.Reason)
			}
		}
	}
}
