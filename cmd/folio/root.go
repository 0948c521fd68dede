package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose    bool
	envFile    string
	contentDir string
	contentURL string
	catalog    string
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:          "folio",
		Short:        "folio serves a portfolio site with a doodle background",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if g.verbose {
				level = log.DebugLevel
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, newLogger(os.Stderr, level)))
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("folio %s\n", version))

	pf := root.PersistentFlags()
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&g.envFile, "env", folio.EnvOr("FOLIO_ENV_FILE", ".env"), "dotenv file to load, missing is fine")
	pf.StringVar(&g.contentDir, "content", "", "content directory (overrides CONTENT_DIR)")
	pf.StringVar(&g.contentURL, "content-url", "", "remote content base URL (overrides CONTENT_URL)")
	pf.StringVar(&g.catalog, "catalog", "", "doodle catalog, YAML or TOML (overrides DOODLE_CATALOG)")

	root.AddCommand(newServeCmd(&g))
	root.AddCommand(newNewCmd())
	root.AddCommand(newCheckCmd(&g))
	root.AddCommand(newPlaceCmd(&g))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads the environment and applies flag overrides.
func (g *globalFlags) loadConfig() (folio.SiteConfig, error) {
	cfg, err := folio.LoadConfig(g.envFile)
	if err != nil {
		return folio.SiteConfig{}, fmt.Errorf("load config: %w", err)
	}
	if g.contentDir != "" {
		cfg.ContentDir = g.contentDir
	}
	if g.contentURL != "" {
		cfg.ContentURL = g.contentURL
	}
	if g.catalog != "" {
		cfg.DoodleCatalog = g.catalog
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
		},
	}
}
