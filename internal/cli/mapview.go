package cli

import (
	"github.com/spf13/cobra"

	"farm-service/internal/maplayer"
)

func (a *app) mapCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "map <resource>",
		Short:     "Print the map layers of a list as GeoJSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(resCompanies), string(resRegions), string(resSectors), string(resPivots), string(resFields)},
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseResource(args[0])
			if err != nil {
				return err
			}
			t, err := a.table(cmd.Context(), res)
			if err != nil {
				return err
			}

			skipped := len(t.rows) - len(t.layers)
			if res != resCropRotations && skipped > 0 {
				a.log.Warn().Int("count", skipped).Str("resource", string(res)).Msg("records without a drawable shape")
			}

			data, err := maplayer.FeatureCollection(t.layers).MarshalJSON()
			if err != nil {
				return err
			}
			a.printf("%s\n", data)
			return nil
		},
	}
}
