package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert the catalog to another format",
		Long: `Loads the catalog, validates it and writes it back out. The format is
chosen by the extension of --out: .json, .jsonl, .yaml or .parquet.`,
		Example: `  # Convert a JSON catalog to parquet
  anipix export --catalog catalog.json --out catalog.parquet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return fmt.Errorf("--out is required")
			}
			_, store, err := opts.load()
			if err != nil {
				return err
			}
			if err := store.Export(outPath); err != nil {
				return fmt.Errorf("failed to export catalog: %w", err)
			}
			slog.Info("Catalog exported", "path", outPath, "images", store.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file path")

	return cmd
}
