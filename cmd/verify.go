package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/anipix/anipix/internal/images"
	"github.com/spf13/cobra"
)

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	var concurrency int
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Fetch every catalog image through the proxy client",
		Long: `Fetches every record's asset with the same headers, timeout and size limit
the proxy uses, and reports which ones would fall back to the placeholder.

Exits with an error when any image fails to load.`,
		Example: `  anipix verify --catalog catalog.json --concurrency 16 --failed`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := opts.load()
			if err != nil {
				return err
			}

			fetcher := images.NewFetcher(cfg.FetchConfig())
			start := time.Now()
			results := fetcher.Verify(cmd.Context(), store.All(), concurrency)

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if r.State == images.Failed {
					failed++
				} else if failedOnly {
					continue
				}
				line := fmt.Sprintf("%-8s %s", r.State, r.Title)
				if r.Err != nil {
					line += fmt.Sprintf(" (%v)", r.Err)
				} else {
					line += fmt.Sprintf(" (%s %dx%d)", r.Format, r.Width, r.Height)
				}
				fmt.Fprintln(out, line)
			}

			slog.Info("Verification finished",
				"images", len(results),
				"failed", failed,
				"duration", time.Since(start).Round(time.Millisecond))

			if failed > 0 {
				return fmt.Errorf("%d of %d images failed to load", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 8, "Images fetched in parallel")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only list images that failed")

	return cmd
}
