package repository

import (
	"context"
	"encoding/json"
	"errors"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/pkg/timeutils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type templateModel struct {
	WeekdayKey     string `gorm:"primaryKey;column:weekday_key"`
	TitleEN        string `gorm:"column:title_en;not null"`
	TitleFR        string `gorm:"column:title_fr;not null"`
	MediaURLs      string `gorm:"column:media_urls;type:text;not null"` // JSON
	IsDailySpecial bool   `gorm:"column:is_daily_special;not null"`
	SortOrder      int    `gorm:"column:sort_order;not null"`
	Active         bool   `gorm:"column:active;not null"`
}

func (templateModel) TableName() string {
	return "scheduled_templates"
}

// DefaultTemplates is the weekly rotation seeded on first migration.
func DefaultTemplates() []domainPublish.Template {
	const (
		pepperoni = "/images/pizza-pepperoni.png"
		breakfast = "/images/breakfast-deal.png"
		bogo      = "/images/bogo-pizza.jpg"
	)

	return []domainPublish.Template{
		{Weekday: timeutils.Monday, TitleEN: "Hamburger Platter", TitleFR: "Assiette hamburger", MediaPaths: []string{"/images/hamburger-platter.png", pepperoni, breakfast}, IsDailySpecial: true, SortOrder: 1, Active: true},
		{Weekday: timeutils.Tuesday, TitleEN: "Smoked Meat Platter", TitleFR: "Assiette sandwich à la viande fumée", MediaPaths: []string{"/images/smoked-meat-platter.png", pepperoni, breakfast}, IsDailySpecial: true, SortOrder: 2, Active: true},
		{Weekday: timeutils.Wednesday, TitleEN: "8 Chicken Wings Platter", TitleFR: "Assiette 8 ailes de poulet", MediaPaths: []string{"/images/chicken-wings-platter.png", pepperoni, breakfast, bogo}, IsDailySpecial: true, SortOrder: 3, Active: true},
		{Weekday: timeutils.Thursday, TitleEN: "Chicken Finger Platter", TitleFR: "Assiette doigts de poulet", MediaPaths: []string{"/images/chicken-finger-platter.png", pepperoni, breakfast, bogo}, IsDailySpecial: true, SortOrder: 4, Active: true},
		{Weekday: timeutils.Friday, TitleEN: "Fish & Chips", TitleFR: "Fish et frites", MediaPaths: []string{"/images/fish-and-chips.png", pepperoni, breakfast, bogo}, IsDailySpecial: true, SortOrder: 5, Active: true},
		{Weekday: timeutils.Saturday, TitleEN: "Weekend Deals", TitleFR: "Promotions du week-end", MediaPaths: []string{pepperoni, breakfast}, IsDailySpecial: false, SortOrder: 6, Active: true},
		{Weekday: timeutils.Sunday, TitleEN: "Weekend Deals", TitleFR: "Promotions du week-end", MediaPaths: []string{pepperoni, breakfast}, IsDailySpecial: false, SortOrder: 7, Active: true},
	}
}

type TemplateGormRepository struct {
	db *gorm.DB
}

func NewTemplateGormRepository(db *gorm.DB) *TemplateGormRepository {
	return &TemplateGormRepository{db: db}
}

// Init migrates the table and inserts the default rotation without touching
// rows that already exist.
func (r *TemplateGormRepository) Init(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&templateModel{}); err != nil {
		return err
	}

	for _, tpl := range DefaultTemplates() {
		m, err := toTemplateModel(tpl)
		if err != nil {
			return err
		}
		res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			logrus.Debugf("[TEMPLATES] Seeded template for %s", tpl.Weekday)
		}
	}
	return nil
}

// GetActive returns nil when the weekday has no active template.
func (r *TemplateGormRepository) GetActive(ctx context.Context, weekday timeutils.Weekday) (*domainPublish.Template, error) {
	var m templateModel
	err := r.db.WithContext(ctx).
		Where("weekday_key = ? AND active = ?", string(weekday), true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	tpl, err := fromTemplateModel(m)
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *TemplateGormRepository) List(ctx context.Context) ([]domainPublish.Template, error) {
	var models []templateModel
	if err := r.db.WithContext(ctx).Order("sort_order asc").Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]domainPublish.Template, 0, len(models))
	for _, m := range models {
		tpl, err := fromTemplateModel(m)
		if err != nil {
			return nil, err
		}
		result = append(result, tpl)
	}
	return result, nil
}

// Save replaces the template for its weekday.
func (r *TemplateGormRepository) Save(ctx context.Context, tpl domainPublish.Template) error {
	m, err := toTemplateModel(tpl)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "weekday_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"title_en", "title_fr", "media_urls", "is_daily_special", "sort_order", "active"}),
	}).Create(&m).Error
}

func toTemplateModel(tpl domainPublish.Template) (templateModel, error) {
	paths := tpl.MediaPaths
	if paths == nil {
		paths = []string{}
	}
	mediaJSON, err := json.Marshal(paths)
	if err != nil {
		return templateModel{}, err
	}
	return templateModel{
		WeekdayKey:     string(tpl.Weekday),
		TitleEN:        tpl.TitleEN,
		TitleFR:        tpl.TitleFR,
		MediaURLs:      string(mediaJSON),
		IsDailySpecial: tpl.IsDailySpecial,
		SortOrder:      tpl.SortOrder,
		Active:         tpl.Active,
	}, nil
}

func fromTemplateModel(m templateModel) (domainPublish.Template, error) {
	var paths []string
	if m.MediaURLs != "" {
		if err := json.Unmarshal([]byte(m.MediaURLs), &paths); err != nil {
			return domainPublish.Template{}, err
		}
	}
	return domainPublish.Template{
		Weekday:        timeutils.Weekday(m.WeekdayKey),
		TitleEN:        m.TitleEN,
		TitleFR:        m.TitleFR,
		MediaPaths:     paths,
		IsDailySpecial: m.IsDailySpecial,
		SortOrder:      m.SortOrder,
		Active:         m.Active,
	}, nil
}
