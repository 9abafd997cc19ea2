package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pipeline-cli/internal/importer"
	"github.com/sells-group/pipeline-cli/internal/model"
)

var (
	importCSVPath string
	importMapPins []string
	importBatches []string
	importDryRun  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import deals from a CSV file",
	Long:  "Parses the CSV, auto-maps its columns onto deal fields, validates the rows and inserts the result. Use --map and --batch to override the proposed mapping.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		schema, err := loadSchema()
		if err != nil {
			return err
		}

		f, err := os.Open(importCSVPath)
		if err != nil {
			return eris.Wrapf(err, "open %s", importCSVPath)
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return eris.Wrapf(err, "stat %s", importCSVPath)
		}

		sess, err := importer.NewSession(info.Name(), info.Size(), f, schema)
		if err != nil {
			return err
		}
		preview := sess.Preview(5)
		zap.L().Info("csv parsed",
			zap.Strings("headers", sess.Headers()),
			zap.Int("preview_rows", len(preview)),
		)

		report, err := sess.Validate()
		for _, warning := range report.Warnings {
			zap.L().Warn("validation", zap.String("warning", warning))
		}
		if err != nil {
			return err
		}

		mapping, err := sess.AutoMap()
		if err != nil {
			return err
		}
		if err := applyMappingOverrides(mapping); err != nil {
			return err
		}

		for _, fm := range mapping.Fields() {
			zap.L().Info("mapping",
				zap.String("field", fm.TargetKey),
				zap.String("header", fm.Header),
				zap.String("status", string(fm.Status)),
				zap.Float64("confidence", fm.Confidence),
			)
		}

		if err := sess.Confirm(); err != nil {
			return err
		}

		existing, err := env.Svc.ListDeals(ctx, model.FilterState{})
		if err != nil {
			return err
		}
		deals, applyRep, err := sess.Apply(existing)
		if err != nil {
			return err
		}

		if importDryRun {
			zap.L().Info("dry run, nothing inserted",
				zap.Int("would_import", applyRep.Imported),
				zap.Int("duplicates", applyRep.Duplicates),
				zap.Int("errored", applyRep.Errored),
			)
			return nil
		}

		if _, err := env.Svc.ImportDeals(ctx, deals); err != nil {
			return err
		}
		zap.L().Info("import complete",
			zap.Int("imported", applyRep.Imported),
			zap.Int("duplicates", applyRep.Duplicates),
			zap.Int("errored", applyRep.Errored),
			zap.String("csv", importCSVPath),
		)
		return nil
	},
}

// applyMappingOverrides applies --map target=header and --batch target=value
// pins on top of the auto-mapping.
func applyMappingOverrides(m *importer.Mapping) error {
	for _, pin := range importMapPins {
		target, header, err := splitPair(pin)
		if err != nil {
			return err
		}
		if !m.SetManual(target, header) {
			return eris.Errorf("unknown target field %q", target)
		}
	}
	for _, pin := range importBatches {
		target, value, err := splitPair(pin)
		if err != nil {
			return err
		}
		if !m.SetBatchValue(target, value) {
			return eris.Errorf("unknown target field %q", target)
		}
	}
	return nil
}

func splitPair(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", eris.Errorf("expected key=value, got %q", s)
	}
	return k, v, nil
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	importCmd.Flags().StringSliceVar(&importMapPins, "map", nil, "pin a field mapping, e.g. --map name=Company")
	importCmd.Flags().StringSliceVar(&importBatches, "batch", nil, fmt.Sprintf("set a batch value, e.g. --batch stage=%s", model.StageLead))
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate and map without inserting")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}
