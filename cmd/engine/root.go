package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// flag names
const (
	flagDataDir             = "data-dir"
	flagConfig              = "config"
	flagEnvFile             = "env-file"
	flagDryRun              = "dry-run"
	flagMaxConcurrent       = "max-concurrent"
	flagMaxAgeDays          = "max-age-days"
	flagSimilarityThreshold = "similarity-threshold"
	flagRepostWindowDays    = "repost-window-days"
	flagJSON                = "json"
	flagLimit               = "limit"
)

type rootFlags struct {
	dataDir    string
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "jobwatch",
		Short: "JobWatch engine - posting lifecycle, repost and source monitoring",
		Long: `JobWatch re-verifies tracked job postings, detects companies that keep
reposting the same role, and checks aggregator copies against their primary listing.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&f.dataDir, flagDataDir, "", "Data directory for config, database and run lock (env: JOBWATCH_DATA_DIR)")
	root.PersistentFlags().StringVar(&f.configPath, flagConfig, "", "Config file (default <data-dir>/config.yml)")
	root.PersistentFlags().StringVar(&f.envFile, flagEnvFile, ".env", "dotenv file loaded before JOBWATCH_* overrides")

	root.AddCommand(
		newRunCmd(f),
		newServeCmd(f),
		newReportCmd(f),
		newAnalyzeCmd(f),
		newReconcileCmd(f),
		newImportCmd(f),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
