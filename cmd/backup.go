package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pipeline-cli/internal/exporter"
)

var backupOut string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a full JSON backup of leaders and deals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		b, err := env.Svc.Backup(ctx)
		if err != nil {
			return err
		}

		f, err := os.Create(backupOut)
		if err != nil {
			return eris.Wrapf(err, "create %s", backupOut)
		}
		defer f.Close()

		if err := exporter.WriteBackup(f, b.ClientLeaders, b.Deals); err != nil {
			return err
		}

		zap.L().Info("backup written",
			zap.Int("leaders", len(b.ClientLeaders)),
			zap.Int("deals", len(b.Deals)),
			zap.String("out", backupOut),
		)
		return nil
	},
}

var restoreIn string

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore leaders and deals from a JSON backup",
	Long:  "Replaces ALL current leader and deal state with the backup contents.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		f, err := os.Open(restoreIn)
		if err != nil {
			return eris.Wrapf(err, "open %s", restoreIn)
		}
		defer f.Close()

		b, err := exporter.ReadBackup(f)
		if err != nil {
			return err
		}

		if err := env.Svc.Restore(ctx, b); err != nil {
			return err
		}

		zap.L().Info("restore complete",
			zap.Int("leaders", len(b.ClientLeaders)),
			zap.Int("deals", len(b.Deals)),
		)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupOut, "out", "pipeline-backup.json", "output file")
	restoreCmd.Flags().StringVar(&restoreIn, "in", "", "backup file to restore (required)")
	_ = restoreCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
