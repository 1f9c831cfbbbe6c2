package usecase

import (
	"context"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/validations"
	"github.com/sirupsen/logrus"
)

type runsService struct {
	ledger domainPublish.IRunLedger
}

func NewRunsService(ledger domainPublish.IRunLedger) domainPublish.IRunsUsecase {
	return &runsService{ledger: ledger}
}

func (s *runsService) List(ctx context.Context, limit int) ([]domainPublish.RunRecord, error) {
	return s.ledger.List(ctx, limit)
}

func (s *runsService) Delete(ctx context.Context, runDate string) (bool, error) {
	if err := validations.ValidateDeleteRunsRequest(ctx, validations.DeleteRunsRequest{RunDate: runDate}); err != nil {
		return false, err
	}
	deleted, err := s.ledger.Delete(ctx, runDate)
	if err != nil {
		return false, err
	}
	logrus.WithField("run_date", runDate).Infof("[RUNS] delete requested, deleted=%t", deleted)
	return deleted, nil
}

func (s *runsService) DeleteAll(ctx context.Context) (int64, error) {
	count, err := s.ledger.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	logrus.Warnf("[RUNS] cleared %d runs", count)
	return count, nil
}
