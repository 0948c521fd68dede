package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/doodle"
)

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load every position, project and document and report problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			src, err := folio.OpenSource(cfg)
			if err != nil {
				return err
			}
			logger.Debug("checking content", "dir", cfg.ContentDir, "url", cfg.ContentURL)

			findings, err := folio.CheckContent(ctx, content.NewRepository(src), catalog)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errs := 0
			for _, f := range findings {
				switch f.Severity {
				case folio.SeverityError:
					errs++
					printError(out, "%s: %s", f.Subject, f.Message)
				case folio.SeverityWarning:
					printWarning(out, "%s: %s", f.Subject, f.Message)
				default:
					printSuccess(out, "%s: %s", f.Subject, f.Message)
				}
			}
			if errs > 0 {
				return fmt.Errorf("%d project(s) failed to load", errs)
			}
			return nil
		},
	}
}

func loadCatalog(cfg folio.SiteConfig) (*doodle.Catalog, error) {
	if cfg.DoodleCatalog == "" {
		return doodle.DefaultCatalog(), nil
	}
	return doodle.LoadCatalog(cfg.DoodleCatalog)
}
