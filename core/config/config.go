package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/AzielCF/daily-post/pkg/utils"
	"github.com/spf13/viper"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Schedule   ScheduleConfig
	Runtime    RuntimeConfig
	Meta       MetaConfig
	Auth       AuthConfig
	Poll       PollConfig
	Content    ContentConfig
	WorkerPool WorkerPoolConfig
	Security   SecurityConfig
}

type AppConfig struct {
	Version     string
	Port        string
	Debug       bool
	Environment string
	BasePath    string
	ServiceName string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string // File path for SQLite, DB Name for Postgres
	ValkeyEnabled   bool
	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyDB        int
	ValkeyKeyPrefix string
}

type ScheduleConfig struct {
	Timezone      string
	PostHour      int
	PublicBaseURL string
	// TickInterval drives the in-process scheduler loop of the rest command.
	TickInterval    time.Duration
	SchedulerInLoop bool
}

type RuntimeConfig struct {
	DryRun           bool
	AlertWebhookURL  string
	AlertServiceName string
}

type MetaConfig struct {
	GraphBaseURL    string
	GraphAPIVersion string
	IGUserID        string
	IGAccessToken   string
	FBPageID        string
	FBAccessToken   string
	AppID           string
	AppSecret       string
}

type AuthConfig struct {
	PublishSecret string
	CronSecret    string
}

type PollConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

type ContentConfig struct {
	Phone   string
	PriceEN string
	PriceFR string
}

type WorkerPoolConfig struct {
	Size      int
	QueueSize int
}

type SecurityConfig struct {
	SecretKey string
}

// IsProduction reports whether https and bearer auth are enforced.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// Location resolves the business timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", c.Schedule.Timezone, err)
	}
	return loc, nil
}

// AlertsEnabled reports whether an alert endpoint is configured.
func (c *Config) AlertsEnabled() bool {
	return strings.TrimSpace(c.Runtime.AlertWebhookURL) != ""
}

// FacebookConfigured mirrors the health check of the page publisher.
func (c *Config) FacebookConfigured() bool {
	return c.Meta.FBPageID != "" && (c.Meta.FBAccessToken != "" || c.Meta.IGAccessToken != "")
}

// LoadConfig builds the configuration from a viper instance that already has
// environment variables and command flags bound.
func LoadConfig(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	storages := v.GetString("app_storages")

	cfg := &Config{
		App: AppConfig{
			Version:     "v1.0.0",
			Port:        v.GetString("app_port"),
			Debug:       utils.ParseBool(v.GetString("app_debug")),
			Environment: v.GetString("app_env"),
			BasePath:    strings.TrimRight(v.GetString("app_base_path"), "/"),
			ServiceName: v.GetString("app_service_name"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("db_driver"),
			Host:            v.GetString("db_host"),
			Port:            v.GetInt("db_port"),
			User:            v.GetString("db_user"),
			Password:        v.GetString("db_password"),
			Name:            v.GetString("db_name"),
			ValkeyEnabled:   utils.ParseBool(v.GetString("valkey_enabled")),
			ValkeyAddress:   v.GetString("valkey_address"),
			ValkeyPassword:  v.GetString("valkey_password"),
			ValkeyDB:        v.GetInt("valkey_db"),
			ValkeyKeyPrefix: v.GetString("valkey_key_prefix"),
		},
		Schedule: ScheduleConfig{
			Timezone:        v.GetString("business_timezone"),
			PostHour:        clampHour(v.GetInt("daily_post_hour")),
			PublicBaseURL:   strings.TrimRight(strings.TrimSpace(v.GetString("public_base_url")), "/"),
			TickInterval:    v.GetDuration("scheduler_tick_interval"),
			SchedulerInLoop: utils.ParseBool(v.GetString("scheduler_enabled")),
		},
		Runtime: RuntimeConfig{
			DryRun:           utils.ParseBool(v.GetString("dry_run")),
			AlertWebhookURL:  strings.TrimSpace(v.GetString("alert_webhook_url")),
			AlertServiceName: v.GetString("alert_service_name"),
		},
		Meta: MetaConfig{
			GraphBaseURL:    strings.TrimRight(v.GetString("graph_base_url"), "/"),
			GraphAPIVersion: v.GetString("graph_api_version"),
			IGUserID:        v.GetString("ig_user_id"),
			IGAccessToken:   v.GetString("ig_access_token"),
			FBPageID:        v.GetString("fb_page_id"),
			FBAccessToken:   v.GetString("fb_access_token"),
			AppID:           v.GetString("meta_app_id"),
			AppSecret:       v.GetString("meta_app_secret"),
		},
		Auth: AuthConfig{
			PublishSecret: v.GetString("publish_cron_secret"),
			CronSecret:    v.GetString("cron_secret"),
		},
		Poll: PollConfig{
			Interval: v.GetDuration("media_poll_interval"),
			Timeout:  v.GetDuration("media_poll_timeout"),
		},
		Content: ContentConfig{
			Phone:   v.GetString("content_phone"),
			PriceEN: v.GetString("content_price_en"),
			PriceFR: v.GetString("content_price_fr"),
		},
		WorkerPool: WorkerPoolConfig{
			Size:      v.GetInt("alert_worker_pool_size"),
			QueueSize: v.GetInt("alert_worker_queue_size"),
		},
		Security: SecurityConfig{SecretKey: v.GetString("app_secret_key")},
	}

	if cfg.Database.Name == "" {
		if cfg.Database.Driver == "postgres" {
			cfg.Database.Name = "daily_post"
		} else {
			cfg.Database.Name = filepath.Join(storages, "daily-post.db")
		}
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_port", "3000")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_service_name", "daily-post")
	v.SetDefault("app_storages", "storages")
	v.SetDefault("app_secret_key", "")

	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("valkey_address", "localhost:6379")
	v.SetDefault("valkey_key_prefix", "dailypost:")

	v.SetDefault("alert_service_name", "social-admin")

	v.SetDefault("business_timezone", "America/Toronto")
	v.SetDefault("daily_post_hour", 8)
	v.SetDefault("scheduler_tick_interval", time.Minute)

	v.SetDefault("graph_base_url", "https://graph.facebook.com")
	v.SetDefault("graph_api_version", "v20.0")

	v.SetDefault("media_poll_interval", 2500*time.Millisecond)
	v.SetDefault("media_poll_timeout", 90*time.Second)

	v.SetDefault("content_phone", "+1 819-647-2933")
	v.SetDefault("content_price_en", "$10.44")
	v.SetDefault("content_price_fr", "10,44 $")

	v.SetDefault("alert_worker_pool_size", 2)
	v.SetDefault("alert_worker_queue_size", 50)
}

func clampHour(hour int) int {
	if hour < 0 {
		return 0
	}
	if hour > 23 {
		return 23
	}
	return hour
}
