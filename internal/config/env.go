package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "JOBWATCH_"

// LoadDotEnv loads .env style files into the process environment. Missing
// files are skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg from JOBWATCH_* variables.
func ApplyEnv(cfg *Config) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = f
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	num("PORT", &cfg.App.Port)
	str("DATA_DIR", &cfg.App.DataDir)
	num("MAX_CONCURRENT_CHECKS", &cfg.Monitor.MaxConcurrentChecks)
	num("MAX_AGE_DAYS", &cfg.Monitor.MaxAgeDays)
	float("SIMILARITY_THRESHOLD", &cfg.Monitor.SimilarityThreshold)
	num("REPOST_WINDOW_DAYS", &cfg.Monitor.RepostWindowDays)
	boolean("DRY_RUN", &cfg.Monitor.DryRun)
	dur("REQUEST_TIMEOUT", &cfg.Monitor.RequestTimeout)
	dur("POLITENESS_DELAY", &cfg.Monitor.PolitenessDelay)
	str("USER_AGENT", &cfg.Monitor.UserAgent)
	dur("SCHEDULE_INTERVAL", &cfg.Monitor.ScheduleInterval)

	return errors.Join(errs...)
}
