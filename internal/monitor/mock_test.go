package monitor

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"jobwatch-engine/internal/domain"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) LoadActiveJobs(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.JobRecord), args.Error(1)
}

func (m *mockStore) LoadJobsByCompany(ctx context.Context, companyID string) ([]domain.JobRecord, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]domain.JobRecord), args.Error(1)
}

func (m *mockStore) GetJob(ctx context.Context, jobID string) (domain.JobRecord, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(domain.JobRecord), args.Error(1)
}

func (m *mockStore) SaveJobs(ctx context.Context, jobs []domain.JobRecord) error {
	return m.Called(ctx, jobs).Error(0)
}

func (m *mockStore) LoadSources(ctx context.Context, jobID string) ([]domain.JobSource, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]domain.JobSource), args.Error(1)
}

func (m *mockStore) SaveSources(ctx context.Context, srcs []domain.JobSource) error {
	return m.Called(ctx, srcs).Error(0)
}

func (m *mockStore) SaveReport(ctx context.Context, r domain.MonitoringReport) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockStore) GetCompanyDomain(ctx context.Context, company string) (string, error) {
	args := m.Called(ctx, company)
	return args.String(0), args.Error(1)
}

// scriptedVerifier answers from a per-job outcome table; unknown jobs are
// active.
type scriptedVerifier struct {
	mu      sync.Mutex
	results map[string]domain.VerificationResult
	seen    []string
	gate    chan struct{}
	entered chan struct{}
}

func (v *scriptedVerifier) VerifyBatch(ctx context.Context, jobs []domain.JobRecord) []domain.VerificationResult {
	if v.entered != nil {
		close(v.entered)
	}
	if v.gate != nil {
		<-v.gate
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]domain.VerificationResult, len(jobs))
	for i, j := range jobs {
		v.seen = append(v.seen, j.JobID)
		r, ok := v.results[j.JobID]
		if !ok {
			r = domain.VerificationResult{Outcome: domain.OutcomeActive, IsActive: true}
		}
		r.JobID = j.JobID
		r.CheckedAt = testNow
		out[i] = r
	}
	return out
}
