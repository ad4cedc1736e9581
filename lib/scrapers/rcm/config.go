package rcm

import "time"

// Config is the json5 form of ClientOptions.
type Config struct {
	BaseUrl          string `json:"base_url"`
	LoginPath        string `json:"login_path"`
	DashboardPath    string `json:"dashboard_path"`
	AvailabilityPath string `json:"availability_path"`
	UserAgent        string `json:"user_agent"`
	// defaults to true, the upstream's certificate chain does not always validate
	InsecureSkipVerify *bool   `json:"insecure_skip_verify"`
	TimeoutSeconds     int     `json:"timeout_seconds"`
	RequestsPerSecond  float64 `json:"requests_per_second"`
	PageSize           int     `json:"page_size"`
	PageConcurrency    int     `json:"page_concurrency"`
}

func (c Config) Options() ClientOptions {
	insecure := true
	if c.InsecureSkipVerify != nil {
		insecure = *c.InsecureSkipVerify
	}
	return ClientOptions{
		BaseUrl:            c.BaseUrl,
		LoginPath:          c.LoginPath,
		DashboardPath:      c.DashboardPath,
		AvailabilityPath:   c.AvailabilityPath,
		UserAgent:          c.UserAgent,
		InsecureSkipVerify: insecure,
		Timeout:            time.Duration(c.TimeoutSeconds) * time.Second,
		RequestsPerSecond:  c.RequestsPerSecond,
		PageSize:           c.PageSize,
		PageConcurrency:    c.PageConcurrency,
	}
}
