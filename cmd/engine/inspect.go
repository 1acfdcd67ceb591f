package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"jobwatch-engine/internal/store"
)

func newReportCmd(rf *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the latest persisted monitoring report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(rf, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if limit > 0 {
				reps, err := a.db.ListReports(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), reps)
			}
			rep, err := a.db.LatestReport(cmd.Context())
			if errors.Is(err, store.ErrNotFound) {
				return errors.New("no monitoring report yet; run `jobwatch run` first")
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().IntVar(&limit, flagLimit, 0, "Print the N most recent reports instead of the latest one")
	return cmd
}

func newAnalyzeCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <company-id>",
		Short: "Compute repost analytics for one company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rf, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.orchestrator(nil).AnalyzeCompany(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newReconcileCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <job-id>",
		Short: "Compare the stored sources of one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rf, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.orchestrator(nil).ReconcileJob(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
}
