package monitor

import (
	"context"
	"errors"
	"fmt"

	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/sources"
)

var ErrNoJobs = errors.New("no jobs")

// AnalyzeCompany computes fresh repost analytics for one company outside a
// cycle. Nothing is persisted.
func (o *Orchestrator) AnalyzeCompany(ctx context.Context, companyID string) (domain.CompanyRepostAnalytics, error) {
	jobs, err := o.deps.Store.LoadJobsByCompany(ctx, companyID)
	if err != nil {
		return domain.CompanyRepostAnalytics{}, fmt.Errorf("load jobs for company %s: %w", companyID, err)
	}
	if len(jobs) == 0 {
		return domain.CompanyRepostAnalytics{}, fmt.Errorf("company %s: %w", companyID, ErrNoJobs)
	}
	a, _ := o.deps.Aggregator.Analyze(companyID, jobs)
	return a, nil
}

// ReconcileJob compares the stored sources of one job. Nothing is persisted.
func (o *Orchestrator) ReconcileJob(ctx context.Context, jobID string) (sources.Reconciliation, error) {
	j, err := o.deps.Store.GetJob(ctx, jobID)
	if err != nil {
		return sources.Reconciliation{}, fmt.Errorf("job %s: %w", jobID, err)
	}
	srcs, err := o.deps.Store.LoadSources(ctx, jobID)
	if err != nil {
		return sources.Reconciliation{}, fmt.Errorf("load sources %s: %w", jobID, err)
	}
	cd, err := o.careersDomain(ctx, j, map[string]string{})
	if err != nil {
		return sources.Reconciliation{}, err
	}
	return o.deps.Reconciler.Reconcile(jobID, cd, srcs), nil
}
