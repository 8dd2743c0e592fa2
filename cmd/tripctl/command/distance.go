package command

import (
	"fmt"
	"trip-planner-service/internal/bootstrap"
	"trip-planner-service/internal/domain"

	"github.com/spf13/cobra"
)

func newDistanceCmd(e *env) *cobra.Command {
	var (
		unitFlag string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "distance <origin> <destination>",
		Short: "Great-circle distance between two addresses",
		Long: `Geocodes both addresses and prints the haversine distance between
them rounded to one decimal. An address that cannot be resolved prints 0
unless --strict is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit := e.cfg.DefaultUnit
			if unitFlag != "" {
				u, err := domain.ParseUnit(unitFlag)
				if err != nil {
					return err
				}
				unit = u
			}

			engine, err := bootstrap.Engine(e.cfg, e.log)
			if err != nil {
				return err
			}

			res, err := engine.Resolve(cmd.Context(), args[0], args[1], unit)
			if err != nil && strict {
				return fmt.Errorf("distance: %w", err)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "unresolved: %v\n", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%.1f %s\n", res.Distance.Value, unit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&unitFlag, "unit", "u", "", "output unit (km or mi), defaults to DEFAULT_UNIT")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when an address cannot be resolved")

	return cmd
}
