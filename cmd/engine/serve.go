package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/events"
	"jobwatch-engine/internal/httpapi"
	"jobwatch-engine/internal/monitor"
	"jobwatch-engine/internal/scheduler"
)

func newServeCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run cycles on the configured schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(rf, nil)
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(cmd.Context(), a)
		},
	}
}

// liveMonitor applies the latest saved config before each cycle.
type liveMonitor struct {
	*monitor.Orchestrator
	cfgVal *atomic.Value // stores config.Config
}

func (m liveMonitor) RunCycle(ctx context.Context) (domain.MonitoringReport, error) {
	m.Reconfigure(monitor.OptionsFromConfig(m.cfgVal.Load().(config.Config)))
	return m.Orchestrator.RunCycle(ctx)
}

func serve(ctx context.Context, a *app) error {
	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(a.cfg)

	hub := events.NewHub()
	mon := liveMonitor{Orchestrator: a.orchestrator(hub), cfgVal: &cfgVal}

	mux := httpapi.NewMux(httpapi.Deps{
		Monitor:     mon,
		Reports:     a.db,
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: a.cfgPath,
		LoadCfg:     func() (config.Config, error) { return config.Load(a.cfgPath) },
		Logger:      a.logger,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", a.cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           httpapi.Handler(mux, a.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(16)
	if err != nil {
		return err
	}
	mux.HandleFunc("/shutdown", httpapi.ShutdownHandler(token, srv))
	a.logger.Printf("engine listening on http://%s (db=%s) shutdown_token=%s", addr, filepath.Join(a.dataDir, dbFile), token)

	if every := a.cfg.Monitor.ScheduleInterval; every > 0 {
		go scheduler.Every(ctx, every, "monitor", a.logger, func(ctx context.Context) error {
			_, err := mon.RunCycle(ctx)
			if errors.Is(err, monitor.ErrCycleRunning) {
				a.logger.Printf("[monitor] scheduled cycle skipped: already running")
				return nil
			}
			return err
		})
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
