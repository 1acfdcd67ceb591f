package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/events"
	"jobwatch-engine/internal/monitor"
	"jobwatch-engine/internal/repost"
	"jobwatch-engine/internal/similarity"
	"jobwatch-engine/internal/sources"
	"jobwatch-engine/internal/store"
	"jobwatch-engine/internal/verify"
)

const (
	dbFile   = "jobwatch.db"
	lockFile = "jobwatch.lock"
)

// app is the wired engine shared by every subcommand.
type app struct {
	cfg     config.Config
	cfgPath string
	dataDir string
	db      *store.DB
	logger  *log.Logger
}

// openApp resolves config (file, then env, then override) and opens the
// store. override may be nil.
func openApp(f *rootFlags, override func(*config.Config)) (*app, error) {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	if err := config.LoadDotEnv(f.envFile); err != nil {
		return nil, err
	}

	dataDir := f.dataDir
	if dataDir == "" {
		dataDir = os.Getenv("JOBWATCH_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	cfgPath := f.configPath
	if cfgPath == "" {
		p, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
		if err != nil {
			return nil, fmt.Errorf("config bootstrap failed: %w", err)
		}
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed (%s): %w", cfgPath, err)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	if override != nil {
		override(&cfg)
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		logger.Printf("[config] warning: %s", w)
	}
	if !vr.OK() {
		return nil, &config.ValidationError{Errors: vr.Errors}
	}

	db, err := store.Open(filepath.Join(dataDir, dbFile))
	if err != nil {
		return nil, err
	}
	logger.Printf("[engine] data_dir=%s config=%s", dataDir, cfgPath)
	return &app{cfg: cfg, cfgPath: cfgPath, dataDir: dataDir, db: db, logger: logger}, nil
}

func (a *app) Close() error { return a.db.Close() }

// orchestrator wires the components from the current config. hub may be nil.
func (a *app) orchestrator(hub *events.Hub) *monitor.Orchestrator {
	m := a.cfg.Monitor
	ver := verify.New(verify.Options{
		MaxConcurrent:   m.MaxConcurrentChecks,
		Timeout:         m.RequestTimeout,
		PolitenessDelay: m.PolitenessDelay,
		PolitenessBurst: m.PolitenessBurst,
		MaxBodyBytes:    m.MaxBodyBytes,
		UserAgent:       m.UserAgent,
	}, verify.Deps{Logger: a.logger})

	scorer := similarity.NewScorer(m.SimilarityThreshold)
	agg := repost.NewAggregator(repost.NewClusterer(scorer, m.RepostWindowDays, time.Now), repost.DefaultThresholds(), time.Now)

	deps := monitor.Deps{
		Store:      a.db,
		Verifier:   ver,
		Aggregator: agg,
		Reconciler: sources.NewReconciler(a.logger),
		Logger:     a.logger,
		LockPath:   filepath.Join(a.dataDir, lockFile),
	}
	if hub != nil {
		deps.Events = hub
	}
	return monitor.New(monitor.OptionsFromConfig(a.cfg), deps)
}
