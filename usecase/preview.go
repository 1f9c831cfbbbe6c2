package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/pkg/timeutils"
	"github.com/AzielCF/daily-post/validations"
)

type previewService struct {
	content  domainPublish.IContentProvider
	ledger   domainPublish.IRunLedger
	loc      *time.Location
	postHour int
	dryRun   bool
	clock    func() time.Time
}

func NewPreviewService(content domainPublish.IContentProvider, ledger domainPublish.IRunLedger, loc *time.Location, postHour int, dryRun bool) domainPublish.IPreviewUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &previewService{
		content:  content,
		ledger:   ledger,
		loc:      loc,
		postHour: postHour,
		dryRun:   dryRun,
		clock:    time.Now,
	}
}

// Preview renders what would be published for a date without side effects.
func (s *previewService) Preview(ctx context.Context, runDate string) (domainPublish.Preview, error) {
	now := s.clock()

	runDate = strings.TrimSpace(runDate)
	if runDate == "" {
		runDate = timeutils.RunDateFor(now, s.loc)
	} else if err := validations.ValidateRunDate(ctx, runDate); err != nil {
		return domainPublish.Preview{}, err
	}

	payload, err := s.content.BuildPayload(ctx, runDate)
	if err != nil {
		return domainPublish.Preview{}, err
	}

	existing, err := s.ledger.Get(ctx, runDate)
	if err != nil {
		return domainPublish.Preview{}, fmt.Errorf("failed to read run ledger for %s: %w", runDate, err)
	}

	next := timeutils.NextWindowStart(now, s.loc, s.postHour)
	return domainPublish.Preview{
		RunDate:     runDate,
		Payload:     payload,
		ExistingRun: existing,
		DryRun:      s.dryRun,
		NextWindow:  &next,
	}, nil
}
