package command

import (
	"fmt"
	"math"
	"strconv"
	"trip-planner-service/internal/domain"

	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var (
		from, to string
		round    bool
	)

	cmd := &cobra.Command{
		Use:   "convert <value>",
		Short: "Convert a distance between km and mi",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
				return fmt.Errorf("convert: value %q is not a finite number", args[0])
			}

			fromUnit, err := domain.ParseUnit(from)
			if err != nil {
				return fmt.Errorf("convert: --from: %w", err)
			}
			toUnit, err := domain.ParseUnit(to)
			if err != nil {
				return fmt.Errorf("convert: --to: %w", err)
			}

			out := domain.ConvertDistance(value, fromUnit, toUnit)
			if round {
				out = domain.Round1(out)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", strconv.FormatFloat(out, 'f', -1, 64), toUnit)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source unit (km or mi)")
	cmd.Flags().StringVar(&to, "to", "", "target unit (km or mi)")
	cmd.Flags().BoolVar(&round, "round", false, "round the result to one decimal")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
