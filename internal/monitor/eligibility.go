package monitor

import (
	"time"

	"jobwatch-engine/internal/domain"
)

// Eligible reports whether j is due for re-verification: still active and
// not confirmed active within maxAgeDays. Closed jobs never are.
func Eligible(j domain.JobRecord, now time.Time, maxAgeDays int) bool {
	if !j.Status.IsActive {
		return false
	}
	last := j.Status.LastVerifiedActive
	if last == nil {
		return true
	}
	return now.Sub(*last) >= time.Duration(maxAgeDays)*24*time.Hour
}

func filterEligible(jobs []domain.JobRecord, now time.Time, maxAgeDays int) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(jobs))
	for _, j := range jobs {
		if Eligible(j, now, maxAgeDays) {
			out = append(out, j)
		}
	}
	return out
}
