package domain

import "time"

type ClosureReason string

const (
	ClosureExpired     ClosureReason = "expired"
	ClosureFilled      ClosureReason = "filled"
	ClosureUnreachable ClosureReason = "unreachable"
	ClosureError       ClosureReason = "error"
	ClosureUnknown     ClosureReason = "unknown"
)

// SalaryRange is an annual compensation band. Nil means "not listed".
type SalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

// JobRecord is one discovered posting plus its lifecycle, repost and
// source state. The orchestrator owns it for the duration of a run.
type JobRecord struct {
	JobID          string       `json:"job_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Requirements   string       `json:"requirements"`
	Location       string       `json:"location"`
	Salary         *SalaryRange `json:"salary,omitempty"`
	CompanyID      string       `json:"company_id"`
	CompanyName    string       `json:"company_name"`
	PostedDate     time.Time    `json:"posted_date"`
	ApplicationURL string       `json:"application_url"`
	SourcePlatform string       `json:"source_platform"`

	Status StatusTracking  `json:"status"`
	Repost RepostDetection `json:"repost"`
}

type StatusChange struct {
	At     time.Time     `json:"at"`
	From   string        `json:"from"`
	To     string        `json:"to"`
	Reason ClosureReason `json:"reason,omitempty"`
	Note   string        `json:"note,omitempty"`
}

// StatusTracking is terminal once IsActive goes false.
type StatusTracking struct {
	IsActive             bool           `json:"is_active"`
	LastVerifiedActive   *time.Time     `json:"last_verified_active,omitempty"`
	LastCheckedAt        *time.Time     `json:"last_checked_at,omitempty"`
	ClosedDate           *time.Time     `json:"closed_date,omitempty"`
	ClosureReason        ClosureReason  `json:"closure_reason,omitempty"`
	VerificationAttempts int            `json:"verification_attempts"`
	VerificationFailures int            `json:"verification_failures"`
	LastError            string         `json:"last_error,omitempty"`
	PostingDurationDays  *int           `json:"posting_duration_days,omitempty"`
	StatusChanges        []StatusChange `json:"status_changes,omitempty"`
}

// RepostDetection reflects the most recent clustering run back onto a job.
type RepostDetection struct {
	IsRepost               bool               `json:"is_repost"`
	OriginalJobID          string             `json:"original_job_id,omitempty"`
	ClusterID              string             `json:"cluster_id,omitempty"`
	RepostSequenceNumber   int                `json:"repost_sequence_number,omitempty"`
	FieldScores            map[string]float64 `json:"field_scores,omitempty"`
	OverallSimilarityScore float64            `json:"overall_similarity_score"`
}

// AgeDays is whole days since PostedDate, or -1 when the date is unknown.
func (j JobRecord) AgeDays(now time.Time) int {
	if j.PostedDate.IsZero() {
		return -1
	}
	d := now.Sub(j.PostedDate)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}
