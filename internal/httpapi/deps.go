package httpapi

import (
	"context"
	"log"
	"sync/atomic"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/events"
	"jobwatch-engine/internal/monitor"
	"jobwatch-engine/internal/sources"
)

// Monitor is the slice of *monitor.Orchestrator the API drives.
type Monitor interface {
	RunCycle(ctx context.Context) (domain.MonitoringReport, error)
	Status() monitor.Status
	AnalyzeCompany(ctx context.Context, companyID string) (domain.CompanyRepostAnalytics, error)
	ReconcileJob(ctx context.Context, jobID string) (sources.Reconciliation, error)
}

type ReportStore interface {
	LatestReport(ctx context.Context) (domain.MonitoringReport, error)
	ListReports(ctx context.Context, limit int) ([]domain.MonitoringReport, error)
}

type Deps struct {
	Monitor Monitor
	Reports ReportStore

	Hub *events.Hub

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Logger *log.Logger
}
