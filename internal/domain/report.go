package domain

import "time"

type AlertSeverity string

const (
	SeverityInfo    AlertSeverity = "info"
	SeverityWarning AlertSeverity = "warning"
	SeverityError   AlertSeverity = "error"
)

// Alert types.
const (
	AlertHighClosureRate = "high_closure_rate"
	AlertHighFailureRate = "high_failure_rate"
	AlertStaleJobs       = "stale_jobs"
)

type Alert struct {
	Type      string        `json:"type"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	Value     float64       `json:"value"`
	Threshold float64       `json:"threshold"`
}

type DurationStats struct {
	Count int     `json:"count"`
	Min   int     `json:"min"`
	Avg   float64 `json:"avg"`
	Max   int     `json:"max"`
}

// Age buckets, in days since posting.
const (
	Age0To7   = "0-7"
	Age8To14  = "8-14"
	Age15To30 = "15-30"
	Age30Plus = "30+"
)

type CompanyFlagSummary struct {
	CompanyID        string        `json:"company_id"`
	CompanyName      string        `json:"company_name"`
	DysfunctionScore float64       `json:"dysfunction_score"`
	QualityRating    QualityRating `json:"quality_rating"`
	RedFlags         []string      `json:"red_flags"`
	RepostClusters   int           `json:"repost_clusters"`
}

type SourceSummary struct {
	JobsReconciled      int            `json:"jobs_reconciled"`
	JobsWithoutPrimary  int            `json:"jobs_without_primary"`
	Deltas              int            `json:"deltas"`
	OutdatedSecondaries int            `json:"outdated_secondaries"`
	PoorSync            int            `json:"poor_sync"`
	StatusHistogram     map[string]int `json:"status_histogram"`
}

type DataQualitySummary struct {
	NoURL             int `json:"no_url"`
	MissingPostedDate int `json:"missing_posted_date"`
}

// MonitoringReport is the per-cycle summary persisted as JSON.
type MonitoringReport struct {
	ReportID               string    `json:"report_id"`
	ReportDate             time.Time `json:"report_date"`
	DryRun                 bool      `json:"dry_run"`
	TotalJobsChecked       int       `json:"total_jobs_checked"`
	ActiveJobs             int       `json:"active_jobs"`
	NewlyClosedJobs        int       `json:"newly_closed_jobs"`
	VerificationErrors     int       `json:"verification_errors"`
	UnverifiableJobs       int       `json:"unverifiable_jobs"`
	RepostClustersDetected int       `json:"repost_clusters_detected"`
	CompaniesFlagged       int       `json:"companies_flagged"`
	ProcessingTimeSeconds  float64   `json:"processing_time_seconds"`
	AlertsGenerated        []Alert   `json:"alerts_generated"`

	ClosureReasons  map[string]int       `json:"closure_reasons"`
	PostingDuration DurationStats        `json:"posting_duration"`
	AgeDistribution map[string]int       `json:"age_distribution"`
	CompanyFlags    []CompanyFlagSummary `json:"company_flags"`
	Sources         SourceSummary        `json:"sources"`
	DataQuality     DataQualitySummary   `json:"data_quality"`
}

func (r MonitoringReport) HasAlert(typ string) bool {
	for _, a := range r.AlertsGenerated {
		if a.Type == typ {
			return true
		}
	}
	return false
}
