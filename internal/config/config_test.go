package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	_, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK(), res.Errors)
	assert.Empty(t, res.Warnings)

	assert.Equal(t, 10, cfg.Monitor.MaxConcurrentChecks)
	assert.Equal(t, 7, cfg.Monitor.MaxAgeDays)
	assert.Equal(t, 0.75, cfg.Monitor.SimilarityThreshold)
	assert.Equal(t, 180, cfg.Monitor.RepostWindowDays)
	assert.Equal(t, 30*time.Second, cfg.Monitor.RequestTimeout)
	assert.False(t, cfg.Monitor.DryRun)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
monitor:
  max_age_days: 3
  request_timeout: 5s
  dry_run: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Monitor.MaxAgeDays)
	assert.Equal(t, 5*time.Second, cfg.Monitor.RequestTimeout)
	assert.True(t, cfg.Monitor.DryRun)
	assert.Equal(t, 10, cfg.Monitor.MaxConcurrentChecks)
	assert.Equal(t, 20, cfg.Alerts.StaleJobsThreshold)
}

func TestLoad_BundledDefaultFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("monitor: [oops"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestNormalizeAndValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.App.Port = 0
	cfg.Monitor.MaxConcurrentChecks = 0
	cfg.Monitor.SimilarityThreshold = 1.5
	cfg.Monitor.PolitenessBurst = 0
	cfg.Alerts.FailureRateThreshold = -0.1
	cfg.Monitor.UserAgent = "   "

	out, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
	assert.Len(t, res.Errors, 5)
	assert.Equal(t, DefaultUserAgent, out.Monitor.UserAgent)
	assert.NotEmpty(t, res.Warnings)

	err := Validate(cfg)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 5)
	assert.Contains(t, err.Error(), "app.port")
}

func TestSaveAtomic_KeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	first := Default()
	require.NoError(t, SaveAtomic(path, first))

	second := Default()
	second.Monitor.MaxAgeDays = 14
	require.NoError(t, SaveAtomic(path, second))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 14, got.Monitor.MaxAgeDays)

	bak, err := Load(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, 7, bak.Monitor.MaxAgeDays)

	bad := Default()
	bad.Monitor.RepostWindowDays = 0
	assert.Error(t, SaveAtomic(path, bad))
	got, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 14, got.Monitor.MaxAgeDays)
}

func TestEnsureUserConfig(t *testing.T) {
	dir := t.TempDir()
	defPath := filepath.Join(dir, "default.yml")
	require.NoError(t, os.WriteFile(defPath, []byte("monitor:\n  max_age_days: 2\n"), 0o644))

	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	p, err := EnsureUserConfig(dataDir, defPath)
	require.NoError(t, err)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Monitor.MaxAgeDays)

	// existing user file is left alone
	require.NoError(t, os.WriteFile(defPath, []byte("monitor:\n  max_age_days: 9\n"), 0o644))
	p, err = EnsureUserConfig(dataDir, defPath)
	require.NoError(t, err)
	cfg, err = Load(p)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Monitor.MaxAgeDays)

	other := t.TempDir()
	p, err = EnsureUserConfig(other, filepath.Join(other, "nope.yml"))
	require.NoError(t, err)
	cfg, err = Load(p)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("JOBWATCH_MAX_CONCURRENT_CHECKS", "4")
	t.Setenv("JOBWATCH_SIMILARITY_THRESHOLD", "0.8")
	t.Setenv("JOBWATCH_DRY_RUN", "true")
	t.Setenv("JOBWATCH_REQUEST_TIMEOUT", "10s")
	t.Setenv("JOBWATCH_DATA_DIR", "/var/lib/jobwatch")

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg))
	assert.Equal(t, 4, cfg.Monitor.MaxConcurrentChecks)
	assert.Equal(t, 0.8, cfg.Monitor.SimilarityThreshold)
	assert.True(t, cfg.Monitor.DryRun)
	assert.Equal(t, 10*time.Second, cfg.Monitor.RequestTimeout)
	assert.Equal(t, "/var/lib/jobwatch", cfg.App.DataDir)

	t.Setenv("JOBWATCH_MAX_AGE_DAYS", "seven")
	t.Setenv("JOBWATCH_DRY_RUN", "maybe")
	err := ApplyEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JOBWATCH_MAX_AGE_DAYS")
	assert.Contains(t, err.Error(), "JOBWATCH_DRY_RUN")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JOBWATCH_TEST_DOTENV=hello\n"), 0o644))
	t.Setenv("JOBWATCH_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("JOBWATCH_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "hello", os.Getenv("JOBWATCH_TEST_DOTENV"))
}
