package monitor

import (
	"context"
	"log"
	"time"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/repost"
	"jobwatch-engine/internal/sources"
)

// JobStore is the persistence the orchestrator needs. *store.DB satisfies it.
type JobStore interface {
	LoadActiveJobs(ctx context.Context, limit int) ([]domain.JobRecord, error)
	LoadJobsByCompany(ctx context.Context, companyID string) ([]domain.JobRecord, error)
	GetJob(ctx context.Context, jobID string) (domain.JobRecord, error)
	SaveJobs(ctx context.Context, jobs []domain.JobRecord) error
	LoadSources(ctx context.Context, jobID string) ([]domain.JobSource, error)
	SaveSources(ctx context.Context, srcs []domain.JobSource) error
	SaveReport(ctx context.Context, r domain.MonitoringReport) error
	GetCompanyDomain(ctx context.Context, company string) (string, error)
}

// Verifier checks a batch of jobs. Per-job failures come back as results.
type Verifier interface {
	VerifyBatch(ctx context.Context, jobs []domain.JobRecord) []domain.VerificationResult
}

type Publisher interface {
	Publish(evt string)
}

// Deps is the run context handed to the orchestrator.
type Deps struct {
	Store      JobStore
	Verifier   Verifier
	Aggregator *repost.Aggregator
	Reconciler *sources.Reconciler
	Events     Publisher // optional
	Logger     *log.Logger
	Now        func() time.Time
	// LockPath is a file guarding against concurrent cycles across
	// processes. Empty disables the file lock.
	LockPath string
}

type AlertThresholds struct {
	ClosureCount int
	FailureRate  float64
	StaleJobs    int
	StaleAgeDays int
}

type Options struct {
	MaxAgeDays int
	LoadLimit  int
	DryRun     bool
	// Workers bounds per-company analysis goroutines.
	Workers int
	Alerts  AlertThresholds
}

func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		MaxAgeDays: cfg.Monitor.MaxAgeDays,
		LoadLimit:  cfg.Monitor.LoadLimit,
		DryRun:     cfg.Monitor.DryRun,
		Workers:    4,
		Alerts: AlertThresholds{
			ClosureCount: cfg.Alerts.ClosureCountThreshold,
			FailureRate:  cfg.Alerts.FailureRateThreshold,
			StaleJobs:    cfg.Alerts.StaleJobsThreshold,
			StaleAgeDays: cfg.Alerts.StaleAgeDays,
		},
	}
}
