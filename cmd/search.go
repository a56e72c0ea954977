package cmd

import (
	"fmt"
	"strings"

	"github.com/anipix/anipix/internal/models"
	"github.com/anipix/anipix/internal/query"
	"github.com/spf13/cobra"
)

type searchOutput struct {
	State      query.ViewState    `json:"state" yaml:"state"`
	URL        string             `json:"url" yaml:"url"`
	Page       int                `json:"page" yaml:"page"`
	TotalItems int                `json:"total_items" yaml:"total_items"`
	TotalPages int                `json:"total_pages" yaml:"total_pages"`
	Items      []models.ImageView `json:"items" yaml:"items"`
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var tag string
	var page int
	var pageSize int
	var output string

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog by title, description, tag or author",
		Long: `Search matches the query (trimmed, case-insensitive) as a substring of the
title or description, or as an exact tag or author ID. Results keep catalog
order. --tag narrows the results to images carrying that tag.

With no query and no tag the whole catalog is listed.`,
		Example: `  # Everything tagged "sky", second page
  anipix search --tag sky --page 2

  # Search text and tag combined
  anipix search "night city" --tag urban --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(output); err != nil {
				return err
			}
			_, store, err := opts.load()
			if err != nil {
				return err
			}

			state := query.ViewState{Tag: tag, Page: 1}
			if len(args) == 1 {
				state = state.WithQuery(args[0])
			}
			state = state.WithPage(page)

			engine := query.NewEngine(store)
			result := state.Visible(engine, pageSize)

			out := cmd.OutOrStdout()
			if output != formatText {
				return encode(out, output, searchOutput{
					State:      state,
					URL:        state.Path(),
					Page:       result.PageNumber,
					TotalItems: result.TotalItems,
					TotalPages: result.TotalPages,
					Items:      models.NewImageViews(result.Items),
				})
			}

			if len(result.Items) == 0 {
				fmt.Fprintln(out, "No images found.")
				return nil
			}
			for _, r := range result.Items {
				writeRecordLine(out, r)
			}
			fmt.Fprintf(out, "\nShowing %d-%d of %d (page %d of %d)\n",
				result.Start(), result.End(), result.TotalItems, result.PageNumber, result.TotalPages)
			if strings.TrimSpace(state.Query) != "" || state.Tag != "" {
				fmt.Fprintf(out, "View: %s\n", state.Path())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only show images with this tag")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", query.SearchPageSize, "Results per page")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format (text, json, yaml)")

	return cmd
}
