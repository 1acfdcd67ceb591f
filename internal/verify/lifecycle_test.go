package verify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobwatch-engine/internal/domain"
)

var d0 = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

func postedJob() domain.JobRecord {
	return domain.JobRecord{
		JobID:          "j1",
		PostedDate:     d0,
		ApplicationURL: "https://boards.greenhouse.io/acme/jobs/1",
		Status:         domain.StatusTracking{IsActive: true},
	}
}

func TestApplyResult_ClosureIsTerminal(t *testing.T) {
	j := postedJob()
	closedAt := d0.Add(30 * 24 * time.Hour)

	closed := ApplyResult(&j, domain.VerificationResult{
		Outcome: domain.OutcomeClosed, Reason: "expired", StatusCode: 404, CheckedAt: closedAt,
	})
	require.True(t, closed)
	assert.False(t, j.Status.IsActive)
	require.NotNil(t, j.Status.ClosedDate)
	assert.Equal(t, closedAt, *j.Status.ClosedDate)
	require.NotNil(t, j.Status.PostingDurationDays)
	assert.Equal(t, 30, *j.Status.PostingDurationDays)
	assert.Equal(t, domain.ClosureExpired, j.Status.ClosureReason)
	require.Len(t, j.Status.StatusChanges, 1)
	assert.Equal(t, "http 404", j.Status.StatusChanges[0].Note)
	assert.Equal(t, 1, j.Status.VerificationAttempts)

	for _, later := range []domain.VerificationResult{
		{Outcome: domain.OutcomeClosed, Reason: "filled", CheckedAt: closedAt.Add(24 * time.Hour)},
		{Outcome: domain.OutcomeActive, IsActive: true, CheckedAt: closedAt.Add(48 * time.Hour)},
	} {
		assert.False(t, ApplyResult(&j, later))
	}
	assert.False(t, j.Status.IsActive)
	assert.Equal(t, closedAt, *j.Status.ClosedDate)
	assert.Equal(t, 30, *j.Status.PostingDurationDays)
	assert.Equal(t, domain.ClosureExpired, j.Status.ClosureReason)
	assert.Len(t, j.Status.StatusChanges, 1)
	assert.Equal(t, 1, j.Status.VerificationAttempts)
}

func TestApplyResult_ActiveResetsFailures(t *testing.T) {
	j := postedJob()
	at := d0.Add(72 * time.Hour)

	ApplyResult(&j, domain.VerificationResult{Outcome: domain.OutcomeError, Reason: ReasonError, Error: "timeout", CheckedAt: at})
	ApplyResult(&j, domain.VerificationResult{Outcome: domain.OutcomeError, Reason: ReasonUnreachable, CheckedAt: at})
	assert.True(t, j.Status.IsActive)
	assert.Equal(t, 2, j.Status.VerificationFailures)
	assert.Equal(t, ReasonUnreachable, j.Status.LastError)
	assert.Nil(t, j.Status.ClosedDate)

	ApplyResult(&j, domain.VerificationResult{Outcome: domain.OutcomeActive, IsActive: true, CheckedAt: at})
	assert.Equal(t, 0, j.Status.VerificationFailures)
	assert.Empty(t, j.Status.LastError)
	require.NotNil(t, j.Status.LastVerifiedActive)
	assert.Equal(t, at, *j.Status.LastVerifiedActive)
	assert.Equal(t, 3, j.Status.VerificationAttempts)
}

func TestApplyResult_NoURLIsNotAClosure(t *testing.T) {
	j := postedJob()
	j.ApplicationURL = ""

	closed := ApplyResult(&j, domain.VerificationResult{
		Outcome: domain.OutcomeUnverifiable, Reason: domain.ReasonNoURL, CheckedAt: d0,
	})
	assert.False(t, closed)
	assert.True(t, j.Status.IsActive)
	assert.Nil(t, j.Status.ClosedDate)
	assert.Nil(t, j.Status.PostingDurationDays)
	assert.Equal(t, 0, j.Status.VerificationFailures)
	assert.Empty(t, j.Status.StatusChanges)
}

func TestApplyResult_UndatedClosure(t *testing.T) {
	j := postedJob()
	j.PostedDate = time.Time{}
	assert.True(t, ApplyResult(&j, domain.VerificationResult{
		Outcome: domain.OutcomeClosed, Reason: "filled", MatchedPhrase: "position has been filled", CheckedAt: d0,
	}))
	assert.Nil(t, j.Status.PostingDurationDays)
	assert.Equal(t, `matched "position has been filled"`, j.Status.StatusChanges[0].Note)
}
