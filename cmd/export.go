package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pipeline-cli/internal/exporter"
)

var (
	exportOut     string
	exportFilters filterFlags
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export deals to CSV or XLSX",
	Long:  "Writes the (optionally filtered) deal list to a file. The format follows the file extension: .csv or .xlsx.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		deals, err := env.Svc.ListDeals(ctx, exportFilters.state())
		if err != nil {
			return err
		}
		leaders, err := env.Svc.ListLeaders(ctx)
		if err != nil {
			return err
		}

		if !strings.HasSuffix(exportOut, ".csv") && !strings.HasSuffix(exportOut, ".xlsx") {
			return eris.Errorf("unsupported export extension on %q (use .csv or .xlsx)", exportOut)
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return eris.Wrapf(err, "create %s", exportOut)
		}
		defer f.Close()

		if strings.HasSuffix(exportOut, ".xlsx") {
			err = exporter.WriteXLSX(f, deals, leaders)
		} else {
			err = exporter.WriteCSV(f, deals, leaders)
		}
		if err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.Int("deals", len(deals)),
			zap.String("out", exportOut),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "deals.csv", "output file (.csv or .xlsx)")
	exportFilters.register(exportCmd)
	rootCmd.AddCommand(exportCmd)
}
