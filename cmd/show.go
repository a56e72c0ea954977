package cmd

import (
	"fmt"

	"github.com/anipix/anipix/internal/models"
	"github.com/spf13/cobra"
)

// relatedLimit matches the detail view of the HTTP API
const relatedLimit = 4

func newShowCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <title>",
		Short: "Show one image and the images related to it",
		Long: `Shows the record with the given title (titles are unique) and up to four
other images that share at least one exact tag with it.`,
		Example: `  anipix show "Sunset Over Tokyo" --output yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(output); err != nil {
				return err
			}
			_, store, err := opts.load()
			if err != nil {
				return err
			}

			image, err := store.ByTitle(args[0])
			if err != nil {
				return err
			}
			related := store.Related(image, relatedLimit)

			out := cmd.OutOrStdout()
			if output != formatText {
				return encode(out, output, struct {
					Image   models.ImageView   `json:"image" yaml:"image"`
					Related []models.ImageView `json:"related" yaml:"related"`
				}{models.NewImageView(image), models.NewImageViews(related)})
			}

			writeRecordDetail(out, image)
			if len(related) > 0 {
				fmt.Fprintln(out, "\nRelated:")
				for _, r := range related {
					writeRecordLine(out, r)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format (text, json, yaml)")

	return cmd
}
