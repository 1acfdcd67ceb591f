package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/domain"
)

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", dir, "--env-file", filepath.Join(dir, "missing.env")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunFlags_OnlyChangedFlagsOverride(t *testing.T) {
	cmd := newRunCmd(&rootFlags{})
	require.NoError(t, cmd.Flags().Set(flagDryRun, "true"))
	require.NoError(t, cmd.Flags().Set(flagSimilarityThreshold, "0.9"))

	cfg := config.Default()
	cfg.Monitor.MaxAgeDays = 3
	f := &runFlags{dryRun: true, similarity: 0.9, maxAgeDays: 7}
	f.apply(cmd, &cfg)

	assert.True(t, cfg.Monitor.DryRun)
	assert.Equal(t, 0.9, cfg.Monitor.SimilarityThreshold)
	assert.Equal(t, 3, cfg.Monitor.MaxAgeDays, "unset flag keeps the config value")
}

func TestRunCommand_EmptyStore(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "run", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "dry run, nothing saved")
	assert.FileExists(t, filepath.Join(dir, "config.yml"))
	assert.FileExists(t, filepath.Join(dir, dbFile))

	_, err = execute(t, dir, "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no monitoring report yet")

	_, err = execute(t, dir, "run")
	require.NoError(t, err)
	out, err = execute(t, dir, "report")
	require.NoError(t, err)
	var rep domain.MonitoringReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.NotEmpty(t, rep.ReportID)
	assert.False(t, rep.DryRun)
}

func TestRunCommand_RejectsInvalidOverride(t *testing.T) {
	_, err := execute(t, t.TempDir(), "run", "--similarity-threshold", "1.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "similarity_threshold")
}

func TestImportAnalyzeReconcile(t *testing.T) {
	dir := t.TempDir()
	batch := filepath.Join(dir, "batch.json")
	require.NoError(t, os.WriteFile(batch, []byte(`{
  "jobs": [{"job_id": "j1", "company_id": "acme", "company_name": "Acme", "title": "Data Engineer",
            "description": "Build pipelines.", "posted_date": "2026-05-01T00:00:00Z"}],
  "sources": [
    {"job_id": "j1", "url": "https://careers.acme.com/jobs/1", "title": "Data Engineer", "description": "Build pipelines."},
    {"job_id": "j1", "url": "https://www.indeed.com/viewjob?jk=1", "title": "Data Engineer", "description": "Build pipelines."}
  ],
  "company_domains": {"acme": "acme.com"}
}`), 0o644))

	out, err := execute(t, dir, "import", batch)
	require.NoError(t, err)
	assert.Contains(t, out, `"added": 1`)

	out, err = execute(t, dir, "analyze", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, `"company_id": "acme"`)

	out, err = execute(t, dir, "reconcile", "j1")
	require.NoError(t, err)
	assert.Contains(t, out, `"has_primary": true`)

	_, err = execute(t, dir, "analyze", "nobody")
	assert.Error(t, err)
}
