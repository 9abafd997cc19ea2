package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var metricsFilters filterFlags

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print dashboard metrics for the (optionally filtered) deal set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		snap, err := env.Svc.Dashboard(ctx, metricsFilters.state())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Persist a KPI snapshot now",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		snap, err := env.Svc.TakeSnapshot(ctx)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

func init() {
	metricsFilters.register(metricsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(snapshotCmd)
}
