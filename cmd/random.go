package cmd

import (
	"fmt"

	"github.com/anipix/anipix/internal/discovery"
	"github.com/anipix/anipix/internal/models"
	"github.com/spf13/cobra"
)

func newRandomCmd(opts *globalOptions) *cobra.Command {
	var count int
	var output string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Draw random images with a short history",
		Long: `Starts a discovery session, draws one image and then randomizes --count
more times. The final image is printed along with the recently shown ones,
most recent first.`,
		Example: `  # Draw 8 times and show what is left in the history
  anipix random --count 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(output); err != nil {
				return err
			}
			cfg, store, err := opts.load()
			if err != nil {
				return err
			}

			session := discovery.NewSession(store, discovery.WithHistorySize(cfg.HistorySize))
			for i := 0; i <= max(count, 0); i++ {
				if _, err := session.Randomize(); err != nil {
					return err
				}
			}
			view := session.CurrentView()

			out := cmd.OutOrStdout()
			if output != formatText {
				return encode(out, output, struct {
					Current models.ImageView   `json:"current" yaml:"current"`
					History []models.ImageView `json:"history" yaml:"history"`
				}{models.NewImageView(view.Current), models.NewImageViews(view.History)})
			}

			writeRecordDetail(out, view.Current)
			if len(view.History) > 0 {
				fmt.Fprintln(out, "\nRecently viewed:")
				for _, r := range view.History {
					writeRecordLine(out, r)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Extra randomize calls after the first draw")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format (text, json, yaml)")

	return cmd
}
