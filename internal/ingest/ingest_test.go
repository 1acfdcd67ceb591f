package ingest

import (
	"bytes"
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/store"
)

func openStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "jobwatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

const batchJSON = `{
  "jobs": [
    {"job_id": "g1", "company_id": "acme", "company_name": "Acme", "title": "Backend Engineer",
     "application_url": "https://boards.greenhouse.io/acme/jobs/1", "posted_date": "2026-05-01T00:00:00Z"},
    {"job_id": "", "company_id": "acme", "title": "No id"},
    {"job_id": "x1", "company_id": "acme", "title": "Old role",
     "status": {"is_active": false, "closed_date": "2026-04-01T00:00:00Z", "closure_reason": "filled"}}
  ],
  "sources": [
    {"job_id": "g1", "url": "https://careers.acme.com/jobs/1", "title": "Backend Engineer"},
    {"job_id": "g1", "url": "https://www.linkedin.com/jobs/view/9", "title": "Backend Engineer"},
    {"job_id": "g1", "url": ""}
  ],
  "company_domains": {"acme": "acme.com", "": "ignored.com"}
}`

func TestImport_NewBatch(t *testing.T) {
	ctx := context.Background()
	db := openStore(t)
	b, err := Decode(strings.NewReader(batchJSON))
	require.NoError(t, err)

	var logs bytes.Buffer
	res, err := Import(ctx, db, b, log.New(&logs, "", 0))
	require.NoError(t, err)
	assert.Equal(t, Result{Added: 2, Skipped: 2, Sources: 2, Domains: 1}, res)
	assert.Contains(t, logs.String(), "skipped (missing job_id)")

	g1, err := db.GetJob(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, g1.Status.IsActive)
	assert.Equal(t, "greenhouse", g1.SourcePlatform)

	x1, err := db.GetJob(ctx, "x1")
	require.NoError(t, err)
	assert.False(t, x1.Status.IsActive, "a closed import stays closed")

	srcs, err := db.LoadSources(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, srcs, 2)
	platforms := []string{srcs[0].Platform, srcs[1].Platform}
	assert.Contains(t, platforms, "linkedin")

	dom, err := db.GetCompanyDomain(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme.com", dom)
}

func TestImport_RefreshKeepsLifecycleState(t *testing.T) {
	ctx := context.Background()
	db := openStore(t)
	verified := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.UpsertJob(ctx, domain.JobRecord{
		JobID: "g1", CompanyID: "acme", Title: "Backend Engineer",
		Status: domain.StatusTracking{IsActive: true, LastVerifiedActive: &verified, VerificationAttempts: 3},
		Repost: domain.RepostDetection{ClusterID: "c1"},
	}))

	res, err := Import(ctx, db, Batch{Jobs: []domain.JobRecord{
		{JobID: "g1", CompanyID: "acme", Title: "Senior Backend Engineer"},
	}}, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	got, err := db.GetJob(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", got.Title)
	assert.Equal(t, 3, got.Status.VerificationAttempts)
	require.NotNil(t, got.Status.LastVerifiedActive)
	assert.True(t, verified.Equal(*got.Status.LastVerifiedActive))
	assert.Equal(t, "c1", got.Repost.ClusterID)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"jobz": []}`))
	assert.Error(t, err)
}
