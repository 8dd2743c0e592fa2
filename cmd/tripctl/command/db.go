package command

import (
	"fmt"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/bootstrap"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDBCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management actions",
	}

	cmd.AddCommand(newDBInitCmd(e), newDBSeedCmd(e))
	return cmd
}

func newDBInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the places schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := bootstrap.Database(cmd.Context(), e.cfg, e.log)
			if err != nil {
				return err
			}
			defer conn.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
			return nil
		},
	}
}

func newDBSeedCmd(e *env) *cobra.Command {
	var unitFlag string

	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Insert places from a JSON file, computing each distance from BASE_LOCATION",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit := e.cfg.DefaultUnit
			if unitFlag != "" {
				u, err := domain.ParseUnit(unitFlag)
				if err != nil {
					return err
				}
				unit = u
			}

			seeds, err := repositories.ReadPlaceSeeds(args[0])
			if err != nil {
				return err
			}

			conn, err := bootstrap.Database(cmd.Context(), e.cfg, e.log)
			if err != nil {
				return err
			}
			defer conn.Close()

			engine, err := bootstrap.Engine(e.cfg, e.log)
			if err != nil {
				return err
			}

			svc := services.NewPlaceService(
				repositories.NewPostgresPlaceRepository(conn), engine, e.cfg.BaseLocation, e.log,
			)

			unresolved := 0
			for _, s := range seeds {
				p, err := svc.CreatePlace(cmd.Context(), services.CreatePlaceInput{
					Name:    s.Name,
					Type:    s.Type,
					Address: s.Address,
					Notes:   s.Notes,
					Rating:  s.Rating,
					Unit:    unit,
				})
				if err != nil {
					return fmt.Errorf("seed places: %q: %w", s.Name, err)
				}
				if p.DistanceKm == nil {
					unresolved++
				}
			}

			e.log.Info("seed complete", zap.Int("places", len(seeds)), zap.Int("unresolved", unresolved))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d places (%d unresolved)\n", len(seeds), unresolved)
			return nil
		},
	}

	cmd.Flags().StringVarP(&unitFlag, "unit", "u", "", "unit recorded with each distance, defaults to DEFAULT_UNIT")
	return cmd
}
