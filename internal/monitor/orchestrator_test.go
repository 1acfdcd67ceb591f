package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/events"
	"jobwatch-engine/internal/repost"
	"jobwatch-engine/internal/similarity"
	"jobwatch-engine/internal/verify"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func daysAgo(n int) time.Time { return testNow.Add(-time.Duration(n) * 24 * time.Hour) }

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func newTestOrchestrator(st JobStore, v Verifier, opts Options) *Orchestrator {
	agg := repost.NewAggregator(
		repost.NewClusterer(similarity.NewScorer(similarity.DefaultThreshold), repost.DefaultWindowDays, fixedNow),
		repost.DefaultThresholds(),
		fixedNow,
	)
	return New(opts, Deps{Store: st, Verifier: v, Aggregator: agg, Logger: quietLogger(), Now: fixedNow})
}

func activeJob(id string, posted time.Time) domain.JobRecord {
	return domain.JobRecord{
		JobID:          id,
		CompanyID:      "co-" + id,
		CompanyName:    "Company " + id,
		Title:          "Engineer",
		Description:    "Build things.",
		PostedDate:     posted,
		ApplicationURL: "https://boards.greenhouse.io/acme/jobs/" + id,
		Status:         domain.StatusTracking{IsActive: true},
	}
}

func activeJobs(n, ageDays int) []domain.JobRecord {
	out := make([]domain.JobRecord, n)
	for i := range out {
		out[i] = activeJob(fmt.Sprintf("j%02d", i), daysAgo(ageDays))
	}
	return out
}

func stubStore(active []domain.JobRecord) *mockStore {
	st := &mockStore{}
	st.On("LoadActiveJobs", mock.Anything, mock.Anything).Return(active, nil)
	st.On("LoadJobsByCompany", mock.Anything, mock.Anything).Return([]domain.JobRecord{}, nil)
	st.On("LoadSources", mock.Anything, mock.Anything).Return([]domain.JobSource(nil), nil)
	st.On("SaveJobs", mock.Anything, mock.Anything).Return(nil)
	st.On("SaveReport", mock.Anything, mock.Anything).Return(nil)
	return st
}

func outcomes(jobs []domain.JobRecord, n int, r domain.VerificationResult) map[string]domain.VerificationResult {
	out := map[string]domain.VerificationResult{}
	for i := 0; i < n; i++ {
		out[jobs[i].JobID] = r
	}
	return out
}

var expired = domain.VerificationResult{Outcome: domain.OutcomeClosed, Reason: "expired", StatusCode: 404}

func TestRunCycle_ClosureAlertBoundary(t *testing.T) {
	for _, tc := range []struct {
		closures int
		alert    bool
	}{{10, false}, {11, true}} {
		jobs := activeJobs(30, 3)
		st := stubStore(jobs)
		v := &scriptedVerifier{results: outcomes(jobs, tc.closures, expired)}

		rep, err := newTestOrchestrator(st, v, DefaultOptions()).RunCycle(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 30, rep.TotalJobsChecked)
		assert.Equal(t, tc.closures, rep.NewlyClosedJobs)
		assert.Equal(t, 30-tc.closures, rep.ActiveJobs)
		assert.Equal(t, tc.closures, rep.ClosureReasons["expired"])
		assert.Equal(t, domain.DurationStats{Count: tc.closures, Min: 3, Avg: 3, Max: 3}, rep.PostingDuration)
		assert.Equal(t, tc.alert, rep.HasAlert(domain.AlertHighClosureRate), "closures=%d", tc.closures)
		if tc.alert {
			assert.Equal(t, domain.SeverityWarning, rep.AlertsGenerated[0].Severity)
		}
		st.AssertCalled(t, "SaveReport", mock.Anything, mock.Anything)
	}
}

func TestRunCycle_FailureRateBoundary(t *testing.T) {
	fail := domain.VerificationResult{Outcome: domain.OutcomeError, Reason: verify.ReasonError, Error: "timeout"}
	for _, tc := range []struct {
		errors int
		alert  bool
	}{{2, false}, {3, true}} {
		jobs := activeJobs(10, 3)
		v := &scriptedVerifier{results: outcomes(jobs, tc.errors, fail)}

		rep, err := newTestOrchestrator(stubStore(jobs), v, DefaultOptions()).RunCycle(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tc.errors, rep.VerificationErrors)
		assert.Equal(t, 0, rep.NewlyClosedJobs)
		assert.Equal(t, tc.alert, rep.HasAlert(domain.AlertHighFailureRate), "errors=%d", tc.errors)
	}
}

func TestRunCycle_StaleJobsBoundary(t *testing.T) {
	for _, tc := range []struct {
		stale int
		alert bool
	}{{20, false}, {21, true}} {
		jobs := append(activeJobs(tc.stale, 40), activeJob("fresh", daysAgo(2)))
		rep, err := newTestOrchestrator(stubStore(jobs), &scriptedVerifier{}, DefaultOptions()).RunCycle(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tc.stale, rep.AgeDistribution[domain.Age30Plus])
		assert.Equal(t, 1, rep.AgeDistribution[domain.Age0To7])
		assert.Equal(t, tc.alert, rep.HasAlert(domain.AlertStaleJobs))
	}
}

func TestRunCycle_OnlyEligibleJobsAreVerified(t *testing.T) {
	recent, old := daysAgo(2), daysAgo(8)
	fresh := activeJob("fresh", daysAgo(20))
	fresh.Status.LastVerifiedActive = &recent
	due := activeJob("due", daysAgo(20))
	due.Status.LastVerifiedActive = &old
	never := activeJob("never", daysAgo(20))
	closed := activeJob("closed", daysAgo(20))
	closed.Status.IsActive = false

	v := &scriptedVerifier{}
	rep, err := newTestOrchestrator(stubStore([]domain.JobRecord{fresh, due, closed, never}), v, DefaultOptions()).
		RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"due", "never"}, v.seen)
	assert.Equal(t, 2, rep.TotalJobsChecked)
}

func TestRunCycle_NoURLIsReportedNotClosed(t *testing.T) {
	j := activeJob("nourl", daysAgo(5))
	j.ApplicationURL = ""
	st := &mockStore{}
	st.On("LoadActiveJobs", mock.Anything, mock.Anything).Return([]domain.JobRecord{j}, nil)
	st.On("LoadJobsByCompany", mock.Anything, mock.Anything).Return([]domain.JobRecord{}, nil)
	st.On("LoadSources", mock.Anything, mock.Anything).Return([]domain.JobSource(nil), nil)
	st.On("SaveReport", mock.Anything, mock.Anything).Return(nil)
	var saved []domain.JobRecord
	st.On("SaveJobs", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]domain.JobRecord)
	}).Return(nil)

	ver := verify.New(verify.Options{}, verify.Deps{Logger: quietLogger(), Now: fixedNow})
	rep, err := newTestOrchestrator(st, ver, DefaultOptions()).RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.UnverifiableJobs)
	assert.Equal(t, 1, rep.DataQuality.NoURL)
	assert.Equal(t, 0, rep.NewlyClosedJobs)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].Status.IsActive)
	assert.Nil(t, saved[0].Status.ClosedDate)
}

func TestRunCycle_DryRunPersistsNothing(t *testing.T) {
	jobs := activeJobs(3, 3)
	st := &mockStore{}
	st.On("LoadActiveJobs", mock.Anything, mock.Anything).Return(jobs, nil)
	st.On("LoadJobsByCompany", mock.Anything, mock.Anything).Return([]domain.JobRecord{}, nil)
	st.On("LoadSources", mock.Anything, mock.Anything).Return([]domain.JobSource(nil), nil)

	opts := DefaultOptions()
	opts.DryRun = true
	rep, err := newTestOrchestrator(st, &scriptedVerifier{results: outcomes(jobs, 1, expired)}, opts).
		RunCycle(context.Background())
	require.NoError(t, err)
	assert.True(t, rep.DryRun)
	assert.Equal(t, 1, rep.NewlyClosedJobs)
	st.AssertNotCalled(t, "SaveJobs", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "SaveReport", mock.Anything, mock.Anything)
}

func TestRunCycle_StoreErrorAborts(t *testing.T) {
	st := &mockStore{}
	st.On("LoadActiveJobs", mock.Anything, mock.Anything).Return([]domain.JobRecord(nil), errors.New("disk gone"))

	o := newTestOrchestrator(st, &scriptedVerifier{}, DefaultOptions())
	_, err := o.RunCycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")

	status := o.Status()
	assert.False(t, status.Running)
	assert.Contains(t, status.LastError, "disk gone")
	st.AssertNotCalled(t, "SaveJobs", mock.Anything, mock.Anything)
}

func TestRunCycle_RepostScenario(t *testing.T) {
	a := domain.JobRecord{
		JobID:        "A",
		CompanyID:    "x",
		CompanyName:  "Company X",
		Title:        "Senior Backend Engineer",
		Description:  "Build the payments platform. You will design APIs, own services end to end and mentor engineers.",
		Requirements: "5+ years of experience with Go.",
		Location:     "Austin, TX",
		PostedDate:   daysAgo(20),
		Status:       domain.StatusTracking{IsActive: false},
	}
	b := a
	b.JobID = "B"
	b.Description = "Build the payments platform. You will design APIs, own services end to end and mentor new engineers."
	b.PostedDate = daysAgo(10)
	b.ApplicationURL = "https://jobs.lever.co/x/b"
	b.Status = domain.StatusTracking{IsActive: true}

	st := &mockStore{}
	st.On("LoadActiveJobs", mock.Anything, mock.Anything).Return([]domain.JobRecord{b}, nil)
	st.On("LoadJobsByCompany", mock.Anything, "x").Return([]domain.JobRecord{a, b}, nil)
	st.On("LoadSources", mock.Anything, mock.Anything).Return([]domain.JobSource(nil), nil)
	st.On("SaveReport", mock.Anything, mock.Anything).Return(nil)
	var saved []domain.JobRecord
	st.On("SaveJobs", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]domain.JobRecord)
	}).Return(nil)

	rep, err := newTestOrchestrator(st, &scriptedVerifier{}, DefaultOptions()).RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.RepostClustersDetected)
	assert.Equal(t, 1, rep.CompaniesFlagged)
	require.Len(t, rep.CompanyFlags, 1)
	assert.Contains(t, rep.CompanyFlags[0].RedFlags, domain.FlagRapidReposts)
	assert.GreaterOrEqual(t, rep.CompanyFlags[0].DysfunctionScore, 0.1)

	require.Len(t, saved, 2)
	byID := map[string]domain.JobRecord{}
	for _, j := range saved {
		byID[j.JobID] = j
	}
	assert.True(t, byID["B"].Repost.IsRepost)
	assert.Equal(t, "A", byID["B"].Repost.OriginalJobID)
	assert.Equal(t, 1, byID["B"].Repost.RepostSequenceNumber)
	assert.NotNil(t, byID["B"].Status.LastVerifiedActive, "verified state survives the company merge")
	assert.False(t, byID["A"].Repost.IsRepost)
	assert.Equal(t, byID["B"].Repost.ClusterID, byID["A"].Repost.ClusterID)
}

func TestRunCycle_ReconcilesSources(t *testing.T) {
	j := activeJob("j1", daysAgo(3))
	j.CompanyID, j.CompanyName = "acme", "Acme"
	copyOf := func(url string) domain.JobSource {
		return domain.JobSource{JobID: "j1", URL: url, Title: "Engineer", Description: "Build things. Ship them."}
	}

	st := &mockStore{}
	st.On("LoadActiveJobs", mock.Anything, mock.Anything).Return([]domain.JobRecord{j}, nil)
	st.On("LoadJobsByCompany", mock.Anything, mock.Anything).Return([]domain.JobRecord{}, nil)
	st.On("LoadSources", mock.Anything, "j1").Return([]domain.JobSource{
		copyOf("https://careers.acme.com/jobs/1"),
		copyOf("https://www.linkedin.com/jobs/view/1"),
	}, nil)
	st.On("GetCompanyDomain", mock.Anything, "acme").Return("acme.com", nil)
	st.On("SaveJobs", mock.Anything, mock.Anything).Return(nil)
	st.On("SaveReport", mock.Anything, mock.Anything).Return(nil)
	var savedSources []domain.JobSource
	st.On("SaveSources", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		savedSources = args.Get(1).([]domain.JobSource)
	}).Return(nil)

	rep, err := newTestOrchestrator(st, &scriptedVerifier{}, DefaultOptions()).RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Sources.JobsReconciled)
	assert.Equal(t, 1, rep.Sources.Deltas)
	assert.Equal(t, 1, rep.Sources.StatusHistogram["identical"])
	require.Len(t, savedSources, 2)
	assert.Equal(t, domain.SourcePrimary, savedSources[0].SourceType)
	assert.Equal(t, domain.SourceSecondary, savedSources[1].SourceType)
	assert.Equal(t, savedSources[0].ContentFingerprint, savedSources[1].ContentFingerprint)
}

func TestRunCycle_RejectsConcurrentCycle(t *testing.T) {
	v := &scriptedVerifier{gate: make(chan struct{}), entered: make(chan struct{})}
	o := newTestOrchestrator(stubStore(activeJobs(2, 3)), v, DefaultOptions())

	done := make(chan error, 1)
	go func() {
		_, err := o.RunCycle(context.Background())
		done <- err
	}()
	<-v.entered

	assert.True(t, o.Status().Running)
	_, err := o.RunCycle(context.Background())
	assert.True(t, errors.Is(err, ErrCycleRunning))

	close(v.gate)
	require.NoError(t, <-done)
	st := o.Status()
	assert.False(t, st.Running)
	assert.NotEmpty(t, st.LastReportID)
}

func TestRunCycle_FileLockHeldElsewhere(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.lock")
	other := flock.New(path)
	ok, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer other.Unlock()

	o := newTestOrchestrator(stubStore(nil), &scriptedVerifier{}, DefaultOptions())
	o.deps.LockPath = path
	_, err = o.RunCycle(context.Background())
	assert.True(t, errors.Is(err, ErrCycleRunning))
	assert.False(t, o.Status().Running)
}

func TestRunCycle_PublishesEvents(t *testing.T) {
	jobs := activeJobs(12, 3)
	hub := events.NewHub()
	sub := hub.Subscribe()

	o := newTestOrchestrator(stubStore(jobs), &scriptedVerifier{results: outcomes(jobs, 11, expired)}, DefaultOptions())
	o.deps.Events = hub
	ctx := events.WithRequestID(context.Background(), "req-42")
	_, err := o.RunCycle(ctx)
	require.NoError(t, err)

	var types []string
	for len(sub) > 0 {
		var e events.Event
		require.NoError(t, json.Unmarshal([]byte(<-sub), &e))
		assert.Equal(t, "req-42", e.RequestID)
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{events.TypeMonitorStarted, events.TypeMonitorCompleted, events.TypeAlert}, types)
}

func TestAnalyzeCompanyAndReconcileJob(t *testing.T) {
	st := &mockStore{}
	st.On("LoadJobsByCompany", mock.Anything, "none").Return([]domain.JobRecord{}, nil)
	st.On("LoadJobsByCompany", mock.Anything, "co-a").Return([]domain.JobRecord{activeJob("a", daysAgo(3))}, nil)
	j := activeJob("a", daysAgo(3))
	st.On("GetJob", mock.Anything, "a").Return(j, nil)
	st.On("LoadSources", mock.Anything, "a").Return([]domain.JobSource{
		{JobID: "a", URL: "https://www.indeed.com/viewjob?jk=1", Title: "Engineer"},
	}, nil)
	st.On("GetCompanyDomain", mock.Anything, mock.Anything).Return("", nil)

	o := newTestOrchestrator(st, &scriptedVerifier{}, DefaultOptions())
	_, err := o.AnalyzeCompany(context.Background(), "none")
	assert.True(t, errors.Is(err, ErrNoJobs))

	a, err := o.AnalyzeCompany(context.Background(), "co-a")
	require.NoError(t, err)
	assert.Equal(t, 1, a.TotalJobsPosted)
	assert.Equal(t, domain.QualityExcellent, a.QualityRating)

	rec, err := o.ReconcileJob(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, rec.HasPrimary)
	assert.Len(t, rec.Sources, 1)
}

func TestReconfigure_AppliesToNextCycle(t *testing.T) {
	st := &mockStore{}
	st.On("LoadActiveJobs", mock.Anything, mock.Anything).Return(activeJobs(1, 3), nil)
	st.On("LoadJobsByCompany", mock.Anything, mock.Anything).Return([]domain.JobRecord{}, nil)
	st.On("LoadSources", mock.Anything, mock.Anything).Return([]domain.JobSource(nil), nil)

	o := newTestOrchestrator(st, &scriptedVerifier{}, DefaultOptions())
	opts := DefaultOptions()
	opts.DryRun = true
	opts.Workers = 0
	o.Reconfigure(opts)
	assert.Equal(t, 1, o.Options().Workers)

	rep, err := o.RunCycle(context.Background())
	require.NoError(t, err)
	assert.True(t, rep.DryRun)
	st.AssertNotCalled(t, "SaveJobs", mock.Anything, mock.Anything)
}
