package usecase

import (
	"context"
	"errors"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/sirupsen/logrus"
)

// FeedService publishes payloads to the secondary page feed.
type FeedService struct {
	platform domainPublish.ISecondaryPlatform
}

func NewFeedService(platform domainPublish.ISecondaryPlatform) *FeedService {
	return &FeedService{platform: platform}
}

// PublishSecondary posts one photo with the caption, or uploads every image
// unpublished in order and attaches them all to a single feed post.
func (s *FeedService) PublishSecondary(ctx context.Context, payload domainPublish.SchedulePayload) (string, error) {
	if len(payload.MediaURLs) == 0 {
		return "", errors.New("Scheduled payload has no media URLs")
	}

	if len(payload.MediaURLs) == 1 {
		return s.platform.PublishSingle(ctx, payload.MediaURLs[0], payload.Caption)
	}

	attachmentIDs := make([]string, 0, len(payload.MediaURLs))
	for _, imageURL := range payload.MediaURLs {
		id, err := s.platform.UploadUnpublished(ctx, imageURL)
		if err != nil {
			return "", err
		}
		attachmentIDs = append(attachmentIDs, id)
	}

	postID, err := s.platform.PublishFeed(ctx, attachmentIDs, payload.Caption)
	if err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{"post_id": postID, "attachments": len(attachmentIDs)}).Info("[FEED] published")
	return postID, nil
}
