package config

import (
	"fmt"
	"strings"
	"time"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// ValidationError carries every failed rule.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "config validation failed:\n- " + strings.Join(e.Errors, "\n- ")
}

// NormalizeAndValidate returns a normalized copy and the rule results.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.App.DataDir = strings.TrimSpace(out.App.DataDir)
	out.Monitor.UserAgent = strings.TrimSpace(out.Monitor.UserAgent)
	if out.Monitor.UserAgent == "" {
		out.Monitor.UserAgent = DefaultUserAgent
		res.addWarn("monitor.user_agent is empty; using %q", DefaultUserAgent)
	}

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	m := out.Monitor
	if m.MaxConcurrentChecks <= 0 {
		res.addErr("monitor.max_concurrent_checks must be > 0")
	} else if m.MaxConcurrentChecks > 50 {
		res.addWarn("monitor.max_concurrent_checks is high (%d) and may get you rate limited.", m.MaxConcurrentChecks)
	}
	if m.MaxAgeDays < 0 {
		res.addErr("monitor.max_age_days must be >= 0")
	}
	if m.SimilarityThreshold <= 0 || m.SimilarityThreshold > 1 {
		res.addErr("monitor.similarity_threshold must be in (0, 1]")
	} else if m.SimilarityThreshold < 0.5 {
		res.addWarn("monitor.similarity_threshold is low (%.2f); unrelated roles may cluster.", m.SimilarityThreshold)
	}
	if m.RepostWindowDays <= 0 {
		res.addErr("monitor.repost_window_days must be > 0")
	}
	if m.RequestTimeout <= 0 {
		res.addErr("monitor.request_timeout must be > 0")
	} else if m.RequestTimeout > 2*time.Minute {
		res.addWarn("monitor.request_timeout is long (%s); slow hosts will stall the batch.", m.RequestTimeout)
	}
	if m.PolitenessDelay < 0 {
		res.addErr("monitor.politeness_delay must be >= 0")
	} else if m.PolitenessDelay == 0 {
		res.addWarn("monitor.politeness_delay is 0; requests to one host are not throttled.")
	}
	if m.PolitenessBurst < 1 {
		res.addErr("monitor.politeness_burst must be >= 1")
	}
	if m.LoadLimit < 0 {
		res.addErr("monitor.load_limit must be >= 0")
	}
	if m.MaxBodyBytes <= 0 {
		res.addErr("monitor.max_body_bytes must be > 0")
	}
	if m.ScheduleInterval < time.Minute {
		res.addErr("monitor.schedule_interval must be >= 1m")
	} else if m.ScheduleInterval < time.Hour {
		res.addWarn("monitor.schedule_interval is %s; postings rarely change that fast.", m.ScheduleInterval)
	}

	a := out.Alerts
	if a.ClosureCountThreshold < 0 {
		res.addErr("alerts.closure_count_threshold must be >= 0")
	}
	if a.FailureRateThreshold < 0 || a.FailureRateThreshold > 1 {
		res.addErr("alerts.failure_rate_threshold must be in [0, 1]")
	}
	if a.StaleJobsThreshold < 0 {
		res.addErr("alerts.stale_jobs_threshold must be >= 0")
	}
	if a.StaleAgeDays <= 0 {
		res.addErr("alerts.stale_age_days must be > 0")
	}

	return out, res
}

// Validate is NormalizeAndValidate for callers that only need an error.
func Validate(cfg Config) error {
	_, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		return &ValidationError{Errors: res.Errors}
	}
	return nil
}
