package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ralt/rpmaudit/internal/decoder"
	"github.com/ralt/rpmaudit/internal/models"
	"github.com/ralt/rpmaudit/internal/rpmdb"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that every header in the store can be read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func runCheck(ctx context.Context, cfg *models.AuditConfig, out io.Writer) error {
	dbFile, err := rpmdb.Locate(cfg.DBPath, cfg.DBFile)
	if err != nil {
		return err
	}

	store, err := rpmdb.OpenStore(ctx, dbFile)
	if err != nil {
		fmt.Fprintln(out, "RPMDB corruption detected:", err)
		return err
	}
	defer store.Close()

	headers, err := store.Headers(ctx)
	if err == nil {
		err = decoder.Verify(headers)
	}
	if err != nil {
		fmt.Fprintln(out, "RPMDB corruption detected:", err)
		return err
	}

	fmt.Fprintln(out, "RPMDB is readable and consistent")
	return nil
}
