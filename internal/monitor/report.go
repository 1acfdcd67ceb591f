package monitor

import (
	"fmt"
	"sort"
	"time"

	"jobwatch-engine/internal/domain"
)

// AgeBucket places a posting age in days into a report bucket.
func AgeBucket(days int) string {
	switch {
	case days <= 7:
		return domain.Age0To7
	case days <= 14:
		return domain.Age8To14
	case days <= 30:
		return domain.Age15To30
	default:
		return domain.Age30Plus
	}
}

func newReport(id string, now time.Time, dryRun bool) domain.MonitoringReport {
	return domain.MonitoringReport{
		ReportID:        id,
		ReportDate:      now.UTC(),
		DryRun:          dryRun,
		AlertsGenerated: []domain.Alert{},
		ClosureReasons:  map[string]int{},
		AgeDistribution: map[string]int{
			domain.Age0To7:   0,
			domain.Age8To14:  0,
			domain.Age15To30: 0,
			domain.Age30Plus: 0,
		},
		CompanyFlags: []domain.CompanyFlagSummary{},
		Sources:      domain.SourceSummary{StatusHistogram: map[string]int{}},
	}
}

// recordVerification tallies one applied result.
func recordVerification(r *domain.MonitoringReport, res domain.VerificationResult, closed bool) {
	r.TotalJobsChecked++
	switch res.Outcome {
	case domain.OutcomeActive:
		r.ActiveJobs++
	case domain.OutcomeError:
		r.VerificationErrors++
	case domain.OutcomeUnverifiable:
		r.UnverifiableJobs++
		r.DataQuality.NoURL++
	}
	if closed {
		r.NewlyClosedJobs++
		r.ClosureReasons[res.Reason]++
	}
}

func durationStats(days []int) domain.DurationStats {
	if len(days) == 0 {
		return domain.DurationStats{}
	}
	st := domain.DurationStats{Count: len(days), Min: days[0], Max: days[0]}
	sum := 0
	for _, d := range days {
		sum += d
		if d < st.Min {
			st.Min = d
		}
		if d > st.Max {
			st.Max = d
		}
	}
	st.Avg = float64(sum) / float64(len(days))
	return st
}

// recordAges buckets still-active jobs and returns how many are stale.
func recordAges(r *domain.MonitoringReport, jobs []domain.JobRecord, now time.Time, staleAgeDays int) int {
	stale := 0
	for _, j := range jobs {
		if !j.Status.IsActive {
			continue
		}
		age := j.AgeDays(now)
		if age < 0 {
			continue
		}
		r.AgeDistribution[AgeBucket(age)]++
		if age > staleAgeDays {
			stale++
		}
	}
	return stale
}

func recordCompanies(r *domain.MonitoringReport, analytics []domain.CompanyRepostAnalytics) {
	for _, a := range analytics {
		r.RepostClustersDetected += a.ClusterCount
		if len(a.RedFlags) == 0 {
			continue
		}
		r.CompaniesFlagged++
		r.CompanyFlags = append(r.CompanyFlags, domain.CompanyFlagSummary{
			CompanyID:        a.CompanyID,
			CompanyName:      a.CompanyName,
			DysfunctionScore: a.DysfunctionScore,
			QualityRating:    a.QualityRating,
			RedFlags:         a.RedFlags,
			RepostClusters:   a.ClusterCount,
		})
	}
	sort.Slice(r.CompanyFlags, func(i, j int) bool {
		a, b := r.CompanyFlags[i], r.CompanyFlags[j]
		if a.DysfunctionScore != b.DysfunctionScore {
			return a.DysfunctionScore > b.DysfunctionScore
		}
		return a.CompanyID < b.CompanyID
	})
}

// buildAlerts applies the run thresholds. Every comparison is strict.
func buildAlerts(r domain.MonitoringReport, staleJobs int, th AlertThresholds) []domain.Alert {
	out := []domain.Alert{}

	if r.NewlyClosedJobs > th.ClosureCount {
		out = append(out, domain.Alert{
			Type:      domain.AlertHighClosureRate,
			Severity:  domain.SeverityWarning,
			Message:   fmt.Sprintf("%d jobs closed this cycle", r.NewlyClosedJobs),
			Value:     float64(r.NewlyClosedJobs),
			Threshold: float64(th.ClosureCount),
		})
	}

	if r.TotalJobsChecked > 0 {
		rate := float64(r.VerificationErrors) / float64(r.TotalJobsChecked)
		if rate > th.FailureRate {
			out = append(out, domain.Alert{
				Type:      domain.AlertHighFailureRate,
				Severity:  domain.SeverityError,
				Message:   fmt.Sprintf("%.1f%% of verifications failed", rate*100),
				Value:     rate,
				Threshold: th.FailureRate,
			})
		}
	}

	if staleJobs > th.StaleJobs {
		out = append(out, domain.Alert{
			Type:      domain.AlertStaleJobs,
			Severity:  domain.SeverityInfo,
			Message:   fmt.Sprintf("%d active jobs are older than %d days", staleJobs, th.StaleAgeDays),
			Value:     float64(staleJobs),
			Threshold: float64(th.StaleJobs),
		})
	}
	return out
}
