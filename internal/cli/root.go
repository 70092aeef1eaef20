package cli

import (
	"github.com/ralt/rpmaudit/internal/rpmdb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rpmaudit",
		Short: "Audit the health and provenance of an RPM package database",
		Long: `Rpmaudit reads the installed-package database of an RPM system and
cross-checks its header store against its relational index.

Commands:
  - health      score database consistency and write a JSON report
  - thirdparty  list packages not published by a trusted vendor
  - check       verify every header in the store can be read`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.String("config", "", "Config file (default /etc/rpmaudit/config.yaml)")
	flags.String("dbpath", rpmdb.DefaultPath, "RPM database directory")
	flags.String("dbfile", rpmdb.DefaultFile, "SQLite database file inside dbpath")
	flags.String("compress", "none", "Compress report artifacts (none, gzip, xz, zstd)")
	flags.String("gpg-key", "", "Path to GPG private key used to sign report artifacts")
	flags.String("gpg-passphrase", "", "GPG key passphrase")

	// Add subcommands
	rootCmd.AddCommand(NewHealthCmd())
	rootCmd.AddCommand(NewThirdPartyCmd())
	rootCmd.AddCommand(NewCheckCmd())

	return rootCmd
}
