package cli

import (
	"github.com/spf13/cobra"

	"pv-bknd/internal/climate"
	"pv-bknd/internal/models"
)

type climateOutput struct {
	PostalCode string         `json:"postalCode"`
	Climate    models.Climate `json:"climate"`
	WindZone   int            `json:"windZone"`
}

func newClimateCmd() *cobra.Command {
	var (
		altitude  float64
		tablePath string
	)

	cmd := &cobra.Command{
		Use:   "climate <postal-code>",
		Short: "Resolve design temperatures and wind zone for a location",
		Example: `  pvcheck climate 75011
  pvcheck climate 05100 --altitude 1300`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := climate.LoadTableFile(tablePath)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), climateOutput{
				PostalCode: args[0],
				Climate:    table.Resolve(args[0], altitude),
				WindZone:   table.WindZone(args[0]),
			})
		},
	}

	cmd.Flags().Float64Var(&altitude, "altitude", 0, "site altitude in metres")
	cmd.Flags().StringVar(&tablePath, "climate-table", "", "YAML climate table (default: embedded France table)")

	return cmd
}
