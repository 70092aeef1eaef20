package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ralt/rpmaudit/internal/health"
	"github.com/ralt/rpmaudit/internal/models"
	"github.com/ralt/rpmaudit/internal/report"
	"github.com/ralt/rpmaudit/internal/rpmdb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// DefaultHealthReport is the default health artifact path
const DefaultHealthReport = "rpmdb_health_report.json"

// NewHealthCmd creates the health command
func NewHealthCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Score the consistency of the package database",
		Long: `Decodes every installed-package header, checks the SQLite index
integrity and Name table, and scores the database from 0 to 100.
The run exits 0 whatever the resulting status; it exits 1 only when
the database is missing or cannot be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.ReportPath = output

			logrus.Info("Starting database health audit...")
			return runHealth(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", DefaultHealthReport, "JSON report path")

	return cmd
}

func runHealth(ctx context.Context, cfg *models.AuditConfig, out io.Writer) error {
	writer, err := newReportWriter(cfg)
	if err != nil {
		return err
	}

	dbFile, err := rpmdb.Locate(cfg.DBPath, cfg.DBFile)
	if err != nil {
		return err
	}

	store, err := rpmdb.OpenStore(ctx, dbFile)
	if err != nil {
		return err
	}
	defer store.Close()

	var index rpmdb.IndexOracle
	idx, err := rpmdb.OpenIndex(ctx, dbFile)
	if err != nil {
		logrus.Warnf("Failed to open index: %v", err)
		index = rpmdb.UnavailableIndex{Err: errors.Unwrap(err)}
	} else {
		defer idx.Close()
		index = idx
	}

	result, err := health.NewAuditor(store, index, cfg.Thresholds).Run(ctx)
	if err != nil {
		return err
	}

	report.PrintHealth(out, result)

	path, err := writer.Write(cfg.ReportPath, result)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nJSON report written to %s\n", path)

	return nil
}
