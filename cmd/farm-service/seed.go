package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"farm-service/internal/seed"
)

func seedCommand() *cobra.Command {
	var (
		path     string
		opts     seed.Options
		randSeed int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo farm from a GeoJSON file of sectors and pivot centers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Password == "" {
				opts.Password = os.Getenv("FARM_SEED_PASSWORD")
			}
			if opts.Password == "" {
				return errors.New("--password or FARM_SEED_PASSWORD is required")
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			fc, err := seed.ReadFeatureCollection(f)
			if err != nil {
				return err
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}

			if randSeed == 0 {
				randSeed = time.Now().UnixNano()
			}
			opts.Rand = rand.New(rand.NewSource(randSeed))

			res, err := seed.New(seed.Services{
				Users:     a.users,
				Auth:      a.authService,
				Companies: a.companies,
				Regions:   a.regions,
				Sectors:   a.sectors,
				Pivots:    a.pivots,
				Rotations: a.cropRotation,
			}, a.log).Run(cmd.Context(), fc, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "company %d: %d sectors, %d pivots, %d rotations (%d pivots skipped)\n",
				res.CompanyID, res.Sectors, res.Pivots, res.Rotations, res.Skipped)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&path, "geojson", "", "FeatureCollection with Polygon sectors and Point pivots")
	flags.StringVar(&opts.Username, "username", "demo", "owner of the demo data, created when missing")
	flags.StringVar(&opts.Password, "password", "", "password for a newly created owner")
	flags.StringVar(&opts.Company, "company", "Demo Agro", "company name")
	flags.StringVar(&opts.Region, "region", "Demo Region", "region name")
	flags.IntVar(&opts.HistoryYears, "history", 2, "past seasons of crop rotations per pivot")
	flags.Int64Var(&randSeed, "seed", 0, "random seed for crops, dates and colors (0 picks one)")
	_ = cmd.MarkFlagRequired("geojson")
	return cmd
}
