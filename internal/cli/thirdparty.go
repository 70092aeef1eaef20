package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ralt/rpmaudit/internal/models"
	"github.com/ralt/rpmaudit/internal/provenance"
	"github.com/ralt/rpmaudit/internal/report"
	"github.com/ralt/rpmaudit/internal/rpmdb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// DefaultThirdPartyReport is the default provenance artifact path
const DefaultThirdPartyReport = "third_party_rpms.json"

// NewThirdPartyCmd creates the thirdparty command
func NewThirdPartyCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "thirdparty",
		Short: "List packages not published by a trusted vendor",
		Long: `Classifies every installed package by vendor. Packages whose vendor
is empty or not one of the Red Hat vendor strings are reported,
grouped by vendor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.ReportPath = output

			logrus.Info("Starting third-party package scan...")
			return runThirdParty(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", DefaultThirdPartyReport, "JSON report path")

	return cmd
}

func runThirdParty(ctx context.Context, cfg *models.AuditConfig, out io.Writer) error {
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

	result, err := provenance.Run(ctx, store)
	if err != nil {
		return err
	}

	report.PrintProvenance(out, result)

	path, err := writer.Write(cfg.ReportPath, result)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nJSON report written to %s\n", path)

	return nil
}
