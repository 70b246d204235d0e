package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"farm-service/internal/listing"
	"farm-service/internal/model"
)

func (a *app) rotationsCommand() *cobra.Command {
	var (
		last  int
		years int
	)

	cmd := &cobra.Command{
		Use:   "rotations",
		Short: "Show the crop-rotation grid of pivots and fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if years <= 0 {
				return fmt.Errorf("--years must be positive")
			}

			var (
				pivots    []model.Pivot
				fields    []model.Field
				rotations []model.CropRotation
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				pivots, err = a.api.Pivots().List(ctx, nil)
				return err
			})
			g.Go(func() (err error) {
				fields, err = a.api.Fields().List(ctx, nil)
				return err
			})
			g.Go(func() (err error) {
				rotations, err = a.api.CropRotations().List(ctx, nil)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			span := listing.RecentYears(last, years)
			grid := listing.RotationGrid(pivots, fields, rotations, span)

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			header := []string{"KIND", "NAME"}
			for _, y := range span {
				header = append(header, strconv.Itoa(y))
			}
			fmt.Fprintln(tw, strings.Join(header, "\t"))

			for _, r := range grid {
				cols := []string{string(r.Kind), r.Name}
				for _, c := range r.Cells {
					if c.Rotation == nil {
						cols = append(cols, "+")
						continue
					}
					cols = append(cols, c.Rotation.Crop)
				}
				fmt.Fprintln(tw, strings.Join(cols, "\t"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&last, "last", time.Now().Year(), "last year shown")
	cmd.Flags().IntVar(&years, "years", 5, "number of years shown")
	return cmd
}
