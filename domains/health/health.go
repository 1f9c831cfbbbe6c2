package health

import "context"

type Status string

const (
	StatusOk    Status = "OK"
	StatusError Status = "ERROR"
)

type Report struct {
	Status             Status         `json:"status"`
	Database           Status         `json:"database"`
	DatabaseMessage    string         `json:"database_message,omitempty"`
	Valkey             string         `json:"valkey"`
	DryRun             bool           `json:"dry_run"`
	AlertsConfigured   bool           `json:"alerts_configured"`
	FacebookConfigured bool           `json:"facebook_configured"`
	Settings           map[string]any `json:"settings,omitempty"`
}

type IHealthUsecase interface {
	GetStatus(ctx context.Context) (Report, error)
}
