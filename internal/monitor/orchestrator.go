package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/events"
	"jobwatch-engine/internal/repost"
	"jobwatch-engine/internal/sources"
	"jobwatch-engine/internal/verify"
)

var ErrCycleRunning = errors.New("monitoring cycle already running")

type Status struct {
	Running      bool   `json:"running"`
	LastRunAt    string `json:"last_run_at"`
	LastOkAt     string `json:"last_ok_at"`
	LastError    string `json:"last_error"`
	LastReportID string `json:"last_report_id"`
}

// Orchestrator sequences one monitoring cycle:
// load eligible, verify, group by company, cluster and analyze, reconcile
// sources, report. Job records are mutated only in the single-threaded
// merge steps.
type Orchestrator struct {
	opts Options
	deps Deps

	mu     sync.Mutex
	status Status
}

func New(opts Options, deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Reconciler == nil {
		deps.Reconciler = sources.NewReconciler(deps.Logger)
	}
	return &Orchestrator{opts: normalizeOptions(opts), deps: deps}
}

func normalizeOptions(opts Options) Options {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return opts
}

func (o *Orchestrator) Options() Options {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opts
}

// Reconfigure swaps the options used by the next cycle. A running cycle
// keeps the options it started with.
func (o *Orchestrator) Reconfigure(opts Options) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opts = normalizeOptions(opts)
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// RunCycle runs one cycle. It fails fast with ErrCycleRunning when another
// cycle holds the in-process flag or the run lock file.
func (o *Orchestrator) RunCycle(ctx context.Context) (domain.MonitoringReport, error) {
	opts, err := o.begin()
	if err != nil {
		return domain.MonitoringReport{}, err
	}
	unlock, err := o.lockFile()
	if err != nil {
		o.finish(domain.MonitoringReport{}, err)
		return domain.MonitoringReport{}, err
	}
	defer unlock()

	rep, err := o.runCycle(ctx, opts)
	o.finish(rep, err)
	if err != nil {
		o.publish(ctx, events.TypeMonitorFailed, map[string]any{"report_id": rep.ReportID, "error": err.Error()})
	}
	return rep, err
}

func (o *Orchestrator) begin() (Options, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status.Running {
		return Options{}, ErrCycleRunning
	}
	o.status.Running = true
	o.status.LastRunAt = o.deps.Now().UTC().Format(time.RFC3339)
	return o.opts, nil
}

func (o *Orchestrator) finish(rep domain.MonitoringReport, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.deps.Now().UTC().Format(time.RFC3339)
	o.status.Running = false
	o.status.LastRunAt = now
	if err != nil {
		o.status.LastError = err.Error()
		return
	}
	o.status.LastError = ""
	o.status.LastOkAt = now
	o.status.LastReportID = rep.ReportID
}

func (o *Orchestrator) lockFile() (func(), error) {
	if o.deps.LockPath == "" {
		return func() {}, nil
	}
	fl := flock.New(o.deps.LockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("run lock %s: %w", o.deps.LockPath, err)
	}
	if !ok {
		return nil, ErrCycleRunning
	}
	return func() { _ = fl.Unlock() }, nil
}

func (o *Orchestrator) runCycle(ctx context.Context, opts Options) (domain.MonitoringReport, error) {
	began := time.Now()
	now := o.deps.Now()
	rep := newReport(uuid.NewString(), now, opts.DryRun)
	o.publish(ctx, events.TypeMonitorStarted, map[string]any{"report_id": rep.ReportID, "dry_run": opts.DryRun})

	loaded, err := o.deps.Store.LoadActiveJobs(ctx, opts.LoadLimit)
	if err != nil {
		return rep, fmt.Errorf("load active jobs: %w", err)
	}
	jobs := filterEligible(loaded, now, opts.MaxAgeDays)
	o.deps.Logger.Printf("[monitor] report_id=%s loaded=%d eligible=%d dry_run=%v", rep.ReportID, len(loaded), len(jobs), opts.DryRun)

	results := o.deps.Verifier.VerifyBatch(ctx, jobs)
	if len(results) != len(jobs) {
		return rep, fmt.Errorf("verifier returned %d results for %d jobs", len(results), len(jobs))
	}
	var durations []int
	for i := range jobs {
		closed := verify.ApplyResult(&jobs[i], results[i])
		recordVerification(&rep, results[i], closed)
		if closed && jobs[i].Status.PostingDurationDays != nil {
			durations = append(durations, *jobs[i].Status.PostingDurationDays)
		}
	}
	rep.PostingDuration = durationStats(durations)
	stale := recordAges(&rep, jobs, now, opts.Alerts.StaleAgeDays)

	runs, err := o.analyzeCompanies(ctx, jobs, opts.Workers)
	if err != nil {
		return rep, err
	}
	analytics := make([]domain.CompanyRepostAnalytics, 0, len(runs))
	for _, r := range runs {
		analytics = append(analytics, r.analytics)
		rep.DataQuality.MissingPostedDate += r.gaps
	}
	recordCompanies(&rep, analytics)

	srcs, err := o.reconcileJobs(ctx, jobs, &rep.Sources)
	if err != nil {
		return rep, err
	}

	rep.AlertsGenerated = buildAlerts(rep, stale, opts.Alerts)
	rep.ProcessingTimeSeconds = time.Since(began).Seconds()

	if !opts.DryRun {
		if err := o.persist(ctx, rep, mergeUpdates(jobs, runs), srcs); err != nil {
			return rep, err
		}
	}

	o.deps.Logger.Printf("[monitor] report_id=%s checked=%d active=%d closed=%d errors=%d clusters=%d flagged=%d alerts=%d",
		rep.ReportID, rep.TotalJobsChecked, rep.ActiveJobs, rep.NewlyClosedJobs, rep.VerificationErrors,
		rep.RepostClustersDetected, rep.CompaniesFlagged, len(rep.AlertsGenerated))
	o.publish(ctx, events.TypeMonitorCompleted, map[string]any{
		"report_id":    rep.ReportID,
		"checked":      rep.TotalJobsChecked,
		"newly_closed": rep.NewlyClosedJobs,
		"alerts":       len(rep.AlertsGenerated),
	})
	for _, a := range rep.AlertsGenerated {
		o.publish(ctx, events.TypeAlert, a)
	}
	return rep, nil
}

func (o *Orchestrator) persist(ctx context.Context, rep domain.MonitoringReport, jobs []domain.JobRecord, srcs []domain.JobSource) error {
	if err := o.deps.Store.SaveJobs(ctx, jobs); err != nil {
		return fmt.Errorf("save jobs: %w", err)
	}
	if len(srcs) > 0 {
		if err := o.deps.Store.SaveSources(ctx, srcs); err != nil {
			return fmt.Errorf("save sources: %w", err)
		}
	}
	if err := o.deps.Store.SaveReport(ctx, rep); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

type companyRun struct {
	id        string
	jobs      []domain.JobRecord
	analytics domain.CompanyRepostAnalytics
	gaps      int
}

// analyzeCompanies clusters every company that has a checked job. Stored
// jobs are loaded first; the pure analysis is then sharded by company.
func (o *Orchestrator) analyzeCompanies(ctx context.Context, checked []domain.JobRecord, workers int) ([]companyRun, error) {
	byCompany := map[string][]domain.JobRecord{}
	for _, j := range checked {
		if j.CompanyID == "" {
			continue
		}
		byCompany[j.CompanyID] = append(byCompany[j.CompanyID], j)
	}
	ids := make([]string, 0, len(byCompany))
	for id := range byCompany {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	runs := make([]companyRun, len(ids))
	for i, id := range ids {
		stored, err := o.deps.Store.LoadJobsByCompany(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load jobs for company %s: %w", id, err)
		}
		runs[i] = companyRun{id: id, jobs: overlay(stored, byCompany[id])}
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range runs {
		r := &runs[i]
		g.Go(func() error {
			a, an := o.deps.Aggregator.Analyze(r.id, r.jobs)
			repost.Apply(r.jobs, an)
			r.analytics = a
			r.gaps = missingDates(r.jobs, an.Clusters)
			o.deps.Logger.Printf("[repost] company_id=%s jobs=%d clusters=%d dysfunction=%.2f rating=%s",
				r.id, len(r.jobs), a.ClusterCount, a.DysfunctionScore, a.QualityRating)
			return nil
		})
	}
	_ = g.Wait()
	return runs, nil
}

// overlay replaces stored copies with the freshly verified ones.
func overlay(stored, fresh []domain.JobRecord) []domain.JobRecord {
	idx := make(map[string]int, len(fresh))
	for i, j := range fresh {
		idx[j.JobID] = i
	}
	out := make([]domain.JobRecord, 0, len(stored)+len(fresh))
	used := make(map[string]bool, len(fresh))
	for _, j := range stored {
		if i, ok := idx[j.JobID]; ok {
			j = fresh[i]
			used[j.JobID] = true
		}
		out = append(out, j)
	}
	for _, j := range fresh {
		if !used[j.JobID] {
			out = append(out, j)
		}
	}
	return out
}

func missingDates(jobs []domain.JobRecord, clusters []domain.RepostCluster) int {
	undated := map[string]bool{}
	for _, j := range jobs {
		if j.PostedDate.IsZero() {
			undated[j.JobID] = true
		}
	}
	n := 0
	for _, c := range clusters {
		if !c.DataQualityGap {
			continue
		}
		for _, id := range c.Members() {
			if undated[id] {
				n++
			}
		}
	}
	return n
}

// mergeUpdates collects every record touched by the cycle, later steps
// winning, in first-seen order.
func mergeUpdates(checked []domain.JobRecord, runs []companyRun) []domain.JobRecord {
	var order []string
	latest := map[string]domain.JobRecord{}
	put := func(j domain.JobRecord) {
		if _, ok := latest[j.JobID]; !ok {
			order = append(order, j.JobID)
		}
		latest[j.JobID] = j
	}
	for _, j := range checked {
		put(j)
	}
	for _, r := range runs {
		for _, j := range r.jobs {
			put(j)
		}
	}
	out := make([]domain.JobRecord, 0, len(order))
	for _, id := range order {
		out = append(out, latest[id])
	}
	return out
}

func (o *Orchestrator) reconcileJobs(ctx context.Context, jobs []domain.JobRecord, sum *domain.SourceSummary) ([]domain.JobSource, error) {
	domains := map[string]string{}
	var out []domain.JobSource
	for _, j := range jobs {
		srcs, err := o.deps.Store.LoadSources(ctx, j.JobID)
		if err != nil {
			return nil, fmt.Errorf("load sources %s: %w", j.JobID, err)
		}
		if len(srcs) == 0 {
			continue
		}
		cd, err := o.careersDomain(ctx, j, domains)
		if err != nil {
			return nil, err
		}
		rec := o.deps.Reconciler.Reconcile(j.JobID, cd, srcs)
		sources.Tally(sum, rec)
		out = append(out, rec.Sources...)
	}
	return out, nil
}

func (o *Orchestrator) careersDomain(ctx context.Context, j domain.JobRecord, cache map[string]string) (string, error) {
	key := j.CompanyID + "|" + j.CompanyName
	if d, ok := cache[key]; ok {
		return d, nil
	}
	var found string
	for _, name := range []string{j.CompanyID, j.CompanyName} {
		if name == "" {
			continue
		}
		d, err := o.deps.Store.GetCompanyDomain(ctx, name)
		if err != nil {
			return "", fmt.Errorf("company domain %s: %w", name, err)
		}
		if d != "" {
			found = d
			break
		}
	}
	cache[key] = found
	return found, nil
}

func (o *Orchestrator) publish(ctx context.Context, typ string, data any) {
	if o.deps.Events == nil {
		return
	}
	o.deps.Events.Publish(events.MakeEvent(events.RequestIDFrom(ctx), typ, 1, data))
}
