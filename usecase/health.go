package usecase

import (
	"context"
	"time"

	"github.com/AzielCF/daily-post/core/config"
	"github.com/AzielCF/daily-post/domains/health"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Pinger is satisfied by the valkey client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthService struct {
	db     *gorm.DB
	valkey Pinger
	cfg    *config.Config
}

// NewHealthService builds the health check. valkey may be nil when the cache
// is disabled.
func NewHealthService(db *gorm.DB, valkey Pinger, cfg *config.Config) health.IHealthUsecase {
	return &healthService{db: db, valkey: valkey, cfg: cfg}
}

func (s *healthService) GetStatus(ctx context.Context) (health.Report, error) {
	report := health.Report{
		Status:             health.StatusOk,
		Database:           health.StatusOk,
		Valkey:             "disabled",
		DryRun:             s.cfg.Runtime.DryRun,
		AlertsConfigured:   s.cfg.AlertsEnabled(),
		FacebookConfigured: s.cfg.FacebookConfigured(),
		Settings:           s.cfg.Settings(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.pingDB(pingCtx); err != nil {
		logrus.WithError(err).Error("[HEALTH] database ping failed")
		report.Status = health.StatusError
		report.Database = health.StatusError
		report.DatabaseMessage = err.Error()
	}

	if s.valkey != nil {
		if err := s.valkey.Ping(pingCtx); err != nil {
			logrus.WithError(err).Warn("[HEALTH] valkey ping failed")
			report.Valkey = "unreachable"
		} else {
			report.Valkey = "connected"
		}
	}

	return report, nil
}

func (s *healthService) pingDB(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
