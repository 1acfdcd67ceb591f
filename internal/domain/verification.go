package domain

import "time"

type VerificationOutcome string

const (
	OutcomeActive       VerificationOutcome = "active"
	OutcomeClosed       VerificationOutcome = "closed"
	OutcomeError        VerificationOutcome = "error"
	OutcomeUnverifiable VerificationOutcome = "unverifiable"
)

// Reason for an unverifiable result.
const ReasonNoURL = "no_url"

// VerificationResult is the typed outcome of one liveness check. Errors
// are carried here rather than returned.
type VerificationResult struct {
	JobID         string              `json:"job_id"`
	Outcome       VerificationOutcome `json:"outcome"`
	IsActive      bool                `json:"is_active"`
	Reason        string              `json:"reason,omitempty"`
	StatusCode    int                 `json:"status_code,omitempty"`
	FinalURL      string              `json:"final_url,omitempty"`
	Platform      string              `json:"platform,omitempty"`
	MatchedPhrase string              `json:"matched_phrase,omitempty"`
	Error         string              `json:"error,omitempty"`
	CheckedAt     time.Time           `json:"checked_at"`
	Duration      time.Duration       `json:"duration"`
}

// Definitive reports whether the result confirms a closure.
func (r VerificationResult) Definitive() bool { return r.Outcome == OutcomeClosed }
