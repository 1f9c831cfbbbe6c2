package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/pkg/metrics"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPollInterval = 2500 * time.Millisecond
	DefaultPollTimeout  = 90 * time.Second

	defaultContainerFailure = "Instagram media processing failed"
)

// ContainerFailedError means the platform reported a terminal failure for a
// container.
type ContainerFailedError struct {
	CreationID string
	Status     domainPublish.ContainerStatus
	Message    string
}

func (e *ContainerFailedError) Error() string {
	return fmt.Sprintf("Media container %s failed: %s", e.CreationID, e.Message)
}

// ContainerTimeoutError means a container never became ready in time.
type ContainerTimeoutError struct {
	CreationID string
}

func (e *ContainerTimeoutError) Error() string {
	return fmt.Sprintf("Timed out waiting for media container %s to be ready", e.CreationID)
}

// ContainerService drives media containers of the primary platform from
// creation to publication.
type ContainerService struct {
	platform     domainPublish.IPrimaryPlatform
	pollInterval time.Duration
	pollTimeout  time.Duration
	metrics      *metrics.Collector
}

func NewContainerService(platform domainPublish.IPrimaryPlatform, pollInterval, pollTimeout time.Duration, collector *metrics.Collector) *ContainerService {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	return &ContainerService{
		platform:     platform,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		metrics:      collector,
	}
}

// PublishPrimary publishes one image directly, or several as a carousel whose
// children are created and confirmed ready strictly in order.
func (s *ContainerService) PublishPrimary(ctx context.Context, payload domainPublish.SchedulePayload) (string, error) {
	if len(payload.MediaURLs) == 0 {
		return "", errors.New("Scheduled payload has no media URLs")
	}

	if len(payload.MediaURLs) == 1 {
		container, err := s.create(ctx, domainPublish.RoleSingle, func() (string, error) {
			return s.platform.CreateSingle(ctx, payload.MediaURLs[0], payload.Caption)
		})
		if err != nil {
			return "", err
		}
		return s.publish(ctx, container)
	}

	childIDs := make([]string, 0, len(payload.MediaURLs))
	for _, imageURL := range payload.MediaURLs {
		child, err := s.create(ctx, domainPublish.RoleCarouselChild, func() (string, error) {
			return s.platform.CreateChild(ctx, imageURL)
		})
		if err != nil {
			return "", err
		}
		childIDs = append(childIDs, child.CreationID)
	}

	parent, err := s.create(ctx, domainPublish.RoleCarouselParent, func() (string, error) {
		return s.platform.CreateParent(ctx, childIDs, payload.Caption)
	})
	if err != nil {
		return "", err
	}
	return s.publish(ctx, parent)
}

func (s *ContainerService) create(ctx context.Context, role domainPublish.ContainerRole, createFn func() (string, error)) (domainPublish.MediaContainer, error) {
	creationID, err := createFn()
	if err != nil {
		return domainPublish.MediaContainer{}, err
	}

	container := domainPublish.MediaContainer{
		CreationID: creationID,
		Status:     domainPublish.ContainerPending,
		Role:       role,
	}
	logrus.WithFields(logrus.Fields{"creation_id": creationID, "role": role}).Debug("[CONTAINER] created")

	if err := s.WaitReady(ctx, creationID); err != nil {
		var failed *ContainerFailedError
		if errors.As(err, &failed) {
			container.Status = failed.Status
		}
		return container, err
	}
	container.Status = domainPublish.ContainerFinished
	return container, nil
}

func (s *ContainerService) publish(ctx context.Context, container domainPublish.MediaContainer) (string, error) {
	mediaID, err := s.platform.Publish(ctx, container.CreationID)
	if err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{"creation_id": container.CreationID, "media_id": mediaID}).Info("[CONTAINER] published")
	return mediaID, nil
}

// WaitReady polls the container until it is ready, fails, or the poll timeout
// elapses. Poll errors are returned as is.
func (s *ContainerService) WaitReady(ctx context.Context, creationID string) error {
	deadline := time.Now().Add(s.pollTimeout)

	for {
		state, err := s.platform.PollStatus(ctx, creationID)
		if err != nil {
			s.metrics.ContainerPoll("error")
			return err
		}

		switch strings.ToUpper(strings.TrimSpace(state.StatusCode)) {
		case "FINISHED", "PUBLISHED":
			s.metrics.ContainerPoll("ready")
			return nil
		case "ERROR", "EXPIRED":
			s.metrics.ContainerPoll("failed")
			message := state.Message
			if strings.TrimSpace(message) == "" {
				message = defaultContainerFailure
			}
			status := domainPublish.ContainerError
			if strings.EqualFold(strings.TrimSpace(state.StatusCode), "EXPIRED") {
				status = domainPublish.ContainerExpired
			}
			return &ContainerFailedError{CreationID: creationID, Status: status, Message: message}
		}
		s.metrics.ContainerPoll("pending")

		if !time.Now().Before(deadline) {
			return &ContainerTimeoutError{CreationID: creationID}
		}

		wait := s.pollInterval
		if remaining := time.Until(deadline); remaining < wait {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
