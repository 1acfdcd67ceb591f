package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobwatch-engine/internal/ingest"
)

func newImportCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <batch.json>",
		Short: "Load discovered jobs, sources and careers domains into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fh.Close()
			batch, err := ingest.Decode(fh)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			a, err := openApp(rf, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := ingest.Import(cmd.Context(), a.db, batch, a.logger)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}
