// Command rcpspsolver is a thin demo harness around pkg/rcpsp: it loads
// an instance and an optional config file, runs the solver facade with
// a NullDevice stand-in for the external metaheuristic, and prints the
// resulting schedule. A real deployment would swap NullDevice for a
// binding to the GPU tabu-search kernel; wiring that is out of scope.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/rcpspsolver/pkg/rcpsp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		seed       uint64
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "rcpspsolver <instance.json>",
		Short: "Solve a resource-constrained project scheduling instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadInstance(args[0])
			if err != nil {
				return err
			}

			config := rcpsp.DefaultConfigureRCPSP()
			if configPath != "" {
				config, err = rcpsp.LoadConfigureRCPSP(configPath)
				if err != nil {
					return err
				}
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			solver := rcpsp.NewSolver(inst, config, rcpsp.NullDevice{}, logger)
			sol, err := solver.Solve(context.Background(), seed)
			if err != nil {
				return err
			}

			var report string
			if verbose {
				report = rcpsp.VerboseReport(inst, sol.StartTimeByID, sol.Makespan, sol.RuntimeSeconds, sol.EvaluatedSchedules)
			} else {
				report = rcpsp.NonVerboseReport(inst, sol.StartTimeByID, sol.Makespan, sol.RuntimeSeconds, sol.EvaluatedSchedules)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML configuration file (defaults applied otherwise)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "RNG seed for seed generation and diversification")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the full per-activity schedule instead of the summary line")

	return cmd
}
