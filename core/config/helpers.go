package config

// Settings returns the non-secret settings exposed by the health endpoint and
// logged on startup.
func (c *Config) Settings() map[string]any {
	return map[string]any{
		"app_version":          c.App.Version,
		"app_env":              c.App.Environment,
		"app_debug":            c.App.Debug,
		"db_driver":            c.Database.Driver,
		"business_timezone":    c.Schedule.Timezone,
		"daily_post_hour":      c.Schedule.PostHour,
		"public_base_url":      c.Schedule.PublicBaseURL,
		"dry_run":              c.Runtime.DryRun,
		"alerts_configured":    c.AlertsEnabled(),
		"facebook_configured":  c.FacebookConfigured(),
		"graph_api_version":    c.Meta.GraphAPIVersion,
		"media_poll_interval":  c.Poll.Interval.String(),
		"media_poll_timeout":   c.Poll.Timeout.String(),
		"valkey_enabled":       c.Database.ValkeyEnabled,
		"alert_worker_pool":    c.WorkerPool.Size,
		"token_refresh_usable": c.Meta.AppID != "" && c.Meta.AppSecret != "",
	}
}
