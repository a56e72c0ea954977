package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTagsCmd(opts *globalOptions) *cobra.Command {
	var output string
	var counts bool

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List every tag in the catalog",
		Long: `Lists the distinct tags of the catalog in order of first appearance.
Tags are case-sensitive here; search and tag filtering compare them
case-insensitively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(output); err != nil {
				return err
			}
			_, store, err := opts.load()
			if err != nil {
				return err
			}

			tags := store.Tags()
			out := cmd.OutOrStdout()

			if output != formatText {
				if !counts {
					return encode(out, output, map[string]any{"tags": tags})
				}
				type tagCount struct {
					Tag    string `json:"tag" yaml:"tag"`
					Images uint64 `json:"images" yaml:"images"`
				}
				rows := make([]tagCount, 0, len(tags))
				for _, tag := range tags {
					rows = append(rows, tagCount{tag, store.TagPostings(tag).GetCardinality()})
				}
				return encode(out, output, map[string]any{"tags": rows})
			}

			for _, tag := range tags {
				if counts {
					fmt.Fprintf(out, "%-24s %d\n", tag, store.TagPostings(tag).GetCardinality())
				} else {
					fmt.Fprintln(out, tag)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&counts, "counts", false, "Show how many images carry each tag")

	return cmd
}
