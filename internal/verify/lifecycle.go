package verify

import (
	"fmt"

	"jobwatch-engine/internal/domain"
)

// Status labels in the change log.
const (
	statusActive = "active"
	statusClosed = "closed"
)

// ApplyResult folds r into job's status tracking and reports whether the
// job closed on this call. Closure is terminal: once a job is inactive
// later results are ignored, so closed_date and posting_duration_days are
// written exactly once.
func ApplyResult(job *domain.JobRecord, r domain.VerificationResult) bool {
	st := &job.Status
	if !st.IsActive {
		return false
	}
	if r.Outcome == domain.OutcomeUnverifiable {
		// no URL is a data-quality gap, not a check
		st.LastError = r.Reason
		return false
	}

	at := r.CheckedAt
	st.LastCheckedAt = &at
	st.VerificationAttempts++

	switch r.Outcome {
	case domain.OutcomeActive:
		st.LastVerifiedActive = &at
		st.VerificationFailures = 0
		st.LastError = ""

	case domain.OutcomeClosed:
		st.IsActive = false
		st.ClosedDate = &at
		st.ClosureReason = domain.ClosureReason(r.Reason)
		if st.ClosureReason == "" {
			st.ClosureReason = domain.ClosureUnknown
		}
		if !job.PostedDate.IsZero() && st.PostingDurationDays == nil {
			days := int(at.Sub(job.PostedDate).Hours() / 24)
			if days < 0 {
				days = 0
			}
			st.PostingDurationDays = &days
		}
		st.StatusChanges = append(st.StatusChanges, domain.StatusChange{
			At:     at,
			From:   statusActive,
			To:     statusClosed,
			Reason: st.ClosureReason,
			Note:   closureNote(r),
		})
		return true

	default:
		st.VerificationFailures++
		st.LastError = r.Error
		if st.LastError == "" {
			st.LastError = r.Reason
		}
	}
	return false
}

func closureNote(r domain.VerificationResult) string {
	if r.MatchedPhrase != "" {
		return fmt.Sprintf("matched %q", r.MatchedPhrase)
	}
	if r.StatusCode != 0 {
		return fmt.Sprintf("http %d", r.StatusCode)
	}
	return ""
}
