package cmd

import (
	"log/slog"
	"os"

	"github.com/anipix/anipix/internal/catalog"
	"github.com/anipix/anipix/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalOptions are shared by every subcommand
type globalOptions struct {
	configPath  string
	catalogPath string
	verbose     bool
}

func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "anipix",
		Short: "Browse a catalog of anime images through a resilient image proxy",
		Long: `AniPix serves a static catalog of anime-style images hosted on an external
image host.

It supports searching by title, description, tag or author, paginated browsing,
random discovery with a short history, and an image proxy that fetches assets
server-side so the host's hotlink restrictions do not break the gallery.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("ANIPIX_CONFIG"), "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "Path to catalog file (.json, .jsonl, .yaml, .parquet)")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newTagsCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newRandomCmd(opts))
	cmd.AddCommand(newVerifyCmd(opts))
	cmd.AddCommand(newExportCmd(opts))

	return cmd
}

// load resolves configuration, sets up logging and loads the catalog
func (o *globalOptions) load() (config.Config, *catalog.Store, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, nil, err
	}
	if o.catalogPath != "" {
		cfg.CatalogPath = o.catalogPath
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	store, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, store, nil
}
