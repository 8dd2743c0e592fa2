// Package command provides the tripctl root and sub-commands.
//
//	tripctl distance "New York, NY" "Los Angeles, CA" [--unit km]
//	tripctl convert 12.5 --from km --to mi
//	tripctl db init
//	tripctl db seed data/seeds/places.json
package command

import (
	"fmt"
	"os"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env holds what PersistentPreRunE resolves for the sub-commands.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

// NewRootCmd builds a fresh command tree. Each call is independent.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "tripctl",
		Short:         "Trip planner distance and database tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			config.LoadDotEnv()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			e.cfg = cfg
			e.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}

	root.AddCommand(
		newDistanceCmd(e),
		newConvertCmd(),
		newDBCmd(e),
	)

	return root
}

// Execute runs the command tree against os.Args and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tripctl:", err)
		os.Exit(1)
	}
}
