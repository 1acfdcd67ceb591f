package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/domain"
)

type runFlags struct {
	dryRun        bool
	maxConcurrent int
	maxAgeDays    int
	similarity    float64
	windowDays    int
	json          bool
}

func newRunCmd(rf *rootFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one monitoring cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(rf, func(cfg *config.Config) { f.apply(cmd, cfg) })
			if err != nil {
				return err
			}
			defer a.Close()

			rep, err := a.orchestrator(nil).RunCycle(cmd.Context())
			if err != nil {
				return fmt.Errorf("monitoring cycle: %w", err)
			}
			if f.json {
				return printJSON(cmd.OutOrStdout(), rep)
			}
			printSummary(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	def := config.Default().Monitor
	cmd.Flags().BoolVar(&f.dryRun, flagDryRun, false, "Verify and analyze without persisting anything")
	cmd.Flags().IntVar(&f.maxConcurrent, flagMaxConcurrent, def.MaxConcurrentChecks, "Maximum concurrent verification requests")
	cmd.Flags().IntVar(&f.maxAgeDays, flagMaxAgeDays, def.MaxAgeDays, "Re-verify jobs not confirmed active within this many days")
	cmd.Flags().Float64Var(&f.similarity, flagSimilarityThreshold, def.SimilarityThreshold, "Overall similarity at which two postings are the same role")
	cmd.Flags().IntVar(&f.windowDays, flagRepostWindowDays, def.RepostWindowDays, "Only cluster postings from the last N days")
	cmd.Flags().BoolVar(&f.json, flagJSON, false, "Print the full report as JSON")
	return cmd
}

// apply copies only the flags the user set, so config and env values win
// over flag defaults.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed(flagDryRun) {
		cfg.Monitor.DryRun = f.dryRun
	}
	if fl.Changed(flagMaxConcurrent) {
		cfg.Monitor.MaxConcurrentChecks = f.maxConcurrent
	}
	if fl.Changed(flagMaxAgeDays) {
		cfg.Monitor.MaxAgeDays = f.maxAgeDays
	}
	if fl.Changed(flagSimilarityThreshold) {
		cfg.Monitor.SimilarityThreshold = f.similarity
	}
	if fl.Changed(flagRepostWindowDays) {
		cfg.Monitor.RepostWindowDays = f.windowDays
	}
}

func printSummary(w io.Writer, rep domain.MonitoringReport) {
	mode := ""
	if rep.DryRun {
		mode = " (dry run, nothing saved)"
	}
	fmt.Fprintf(w, "report %s%s\n", rep.ReportID, mode)
	fmt.Fprintf(w, "  checked=%d active=%d closed=%d errors=%d unverifiable=%d\n",
		rep.TotalJobsChecked, rep.ActiveJobs, rep.NewlyClosedJobs, rep.VerificationErrors, rep.UnverifiableJobs)
	fmt.Fprintf(w, "  repost_clusters=%d companies_flagged=%d\n", rep.RepostClustersDetected, rep.CompaniesFlagged)
	fmt.Fprintf(w, "  sources: reconciled=%d deltas=%d outdated=%d poor_sync=%d without_primary=%d\n",
		rep.Sources.JobsReconciled, rep.Sources.Deltas, rep.Sources.OutdatedSecondaries, rep.Sources.PoorSync, rep.Sources.JobsWithoutPrimary)
	for _, c := range rep.CompanyFlags {
		fmt.Fprintf(w, "  company %s dysfunction=%.2f rating=%s flags=%v\n", c.CompanyID, c.DysfunctionScore, c.QualityRating, c.RedFlags)
	}
	for _, a := range rep.AlertsGenerated {
		fmt.Fprintf(w, "  ALERT [%s] %s: %s\n", a.Severity, a.Type, a.Message)
	}
}
