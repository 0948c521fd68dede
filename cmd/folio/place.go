package main

import (
	"encoding/json"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/doodle"
)

func newPlaceCmd(g *globalFlags) *cobra.Command {
	var (
		width, height float64
		category      string
		seed          uint64
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Print one doodle placement as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = rand.Uint64()
			}
			loggerFromContext(cmd.Context()).Debug("placing", "seed", seed, "category", category)

			rng := rand.New(rand.NewPCG(seed, seed))
			placed := doodle.Place(rng, catalog, doodle.DefaultConfig(),
				doodle.Viewport{Width: width, Height: height}, doodle.Category(category))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(placed)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&width, "width", 1440, "viewport width in px")
	f.Float64Var(&height, "height", 900, "viewport height in px")
	f.StringVar(&category, "category", "", "doodle category, empty for all")
	f.Uint64Var(&seed, "seed", 0, "PCG seed, random when 0")
	return cmd
}
