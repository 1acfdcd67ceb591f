package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Monitor Monitor `yaml:"monitor" json:"monitor"`
	Alerts  Alerts  `yaml:"alerts" json:"alerts"`
}

// Monitor holds the run-level parameters of a monitoring cycle.
type Monitor struct {
	MaxConcurrentChecks int           `yaml:"max_concurrent_checks" json:"max_concurrent_checks"`
	MaxAgeDays          int           `yaml:"max_age_days" json:"max_age_days"`
	SimilarityThreshold float64       `yaml:"similarity_threshold" json:"similarity_threshold"`
	RepostWindowDays    int           `yaml:"repost_window_days" json:"repost_window_days"`
	DryRun              bool          `yaml:"dry_run" json:"dry_run"`
	RequestTimeout      time.Duration `yaml:"request_timeout" json:"request_timeout"`
	PolitenessDelay     time.Duration `yaml:"politeness_delay" json:"politeness_delay"`
	PolitenessBurst     int           `yaml:"politeness_burst" json:"politeness_burst"`
	LoadLimit           int           `yaml:"load_limit" json:"load_limit"`
	MaxBodyBytes        int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	UserAgent           string        `yaml:"user_agent" json:"user_agent"`
	ScheduleInterval    time.Duration `yaml:"schedule_interval" json:"schedule_interval"`
}

// Alerts are the report thresholds. Each alert fires when its value is
// strictly above the threshold.
type Alerts struct {
	ClosureCountThreshold int     `yaml:"closure_count_threshold" json:"closure_count_threshold"`
	FailureRateThreshold  float64 `yaml:"failure_rate_threshold" json:"failure_rate_threshold"`
	StaleJobsThreshold    int     `yaml:"stale_jobs_threshold" json:"stale_jobs_threshold"`
	StaleAgeDays          int     `yaml:"stale_age_days" json:"stale_age_days"`
}

const DefaultUserAgent = "JobWatch/1.0 (+local)"

func Default() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.App.DataDir = "."
	cfg.Monitor = Monitor{
		MaxConcurrentChecks: 10,
		MaxAgeDays:          7,
		SimilarityThreshold: 0.75,
		RepostWindowDays:    180,
		RequestTimeout:      30 * time.Second,
		PolitenessDelay:     time.Second,
		PolitenessBurst:     2,
		LoadLimit:           5000,
		MaxBodyBytes:        2 << 20,
		UserAgent:           DefaultUserAgent,
		ScheduleInterval:    24 * time.Hour,
	}
	cfg.Alerts = Alerts{
		ClosureCountThreshold: 10,
		FailureRateThreshold:  0.20,
		StaleJobsThreshold:    20,
		StaleAgeDays:          30,
	}
	return cfg
}

// Load reads path over the defaults, so keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
