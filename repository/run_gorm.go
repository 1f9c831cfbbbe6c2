package repository

import (
	"context"
	"errors"
	"time"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/pkg/timeutils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultRunListLimit = 30
	MaxRunListLimit     = 200
)

type runModel struct {
	RunDate          string    `gorm:"primaryKey;column:run_date;size:10"`
	WeekdayKey       string    `gorm:"column:weekday_key;not null"`
	Status           string    `gorm:"column:status;not null;index"`
	InstagramMediaID *string   `gorm:"column:instagram_media_id"`
	FacebookPostID   *string   `gorm:"column:facebook_post_id"`
	ErrorMessage     *string   `gorm:"column:error_message;type:text"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null"`
}

func (runModel) TableName() string {
	return "publish_runs"
}

// RunGormRepository is the run ledger. The primary key on run_date is the
// only concurrency guard between overlapping invocations.
type RunGormRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRunGormRepository(db *gorm.DB) *RunGormRepository {
	return &RunGormRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *RunGormRepository) Init(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&runModel{})
}

func (r *RunGormRepository) Get(ctx context.Context, runDate string) (*domainPublish.RunRecord, error) {
	var m runModel
	if err := r.db.WithContext(ctx).First(&m, "run_date = ?", runDate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	record := fromRunModel(m)
	return &record, nil
}

// Upsert inserts the row or replaces every column of the existing one.
func (r *RunGormRepository) Upsert(ctx context.Context, input domainPublish.UpsertRunInput) (domainPublish.RunRecord, error) {
	m := runModel{
		RunDate:          input.RunDate,
		WeekdayKey:       string(input.Weekday),
		Status:           string(input.Status),
		InstagramMediaID: input.PrimaryMediaID,
		FacebookPostID:   input.SecondaryPostID,
		ErrorMessage:     input.ErrorMessage,
		UpdatedAt:        r.now(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "run_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"weekday_key",
			"status",
			"instagram_media_id",
			"facebook_post_id",
			"error_message",
			"updated_at",
		}),
	}).Create(&m).Error
	if err != nil {
		return domainPublish.RunRecord{}, err
	}

	stored, err := r.Get(ctx, input.RunDate)
	if err != nil {
		return domainPublish.RunRecord{}, err
	}
	if stored == nil {
		return fromRunModel(m), nil
	}
	return *stored, nil
}

func (r *RunGormRepository) Delete(ctx context.Context, runDate string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&runModel{}, "run_date = ?", runDate)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *RunGormRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&runModel{})
	return res.RowsAffected, res.Error
}

// List returns the most recent runs first.
func (r *RunGormRepository) List(ctx context.Context, limit int) ([]domainPublish.RunRecord, error) {
	var models []runModel
	err := r.db.WithContext(ctx).
		Order("run_date desc").
		Limit(ClampRunListLimit(limit)).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	result := make([]domainPublish.RunRecord, len(models))
	for i, m := range models {
		result[i] = fromRunModel(m)
	}
	return result, nil
}

// ClampRunListLimit applies the default and bounds of run listings.
func ClampRunListLimit(limit int) int {
	if limit <= 0 {
		return DefaultRunListLimit
	}
	if limit > MaxRunListLimit {
		return MaxRunListLimit
	}
	return limit
}

func fromRunModel(m runModel) domainPublish.RunRecord {
	return domainPublish.RunRecord{
		RunDate:         m.RunDate,
		Weekday:         timeutils.Weekday(m.WeekdayKey),
		Status:          domainPublish.RunStatus(m.Status),
		PrimaryMediaID:  m.InstagramMediaID,
		SecondaryPostID: m.FacebookPostID,
		ErrorMessage:    m.ErrorMessage,
		UpdatedAt:       m.UpdatedAt,
	}
}
