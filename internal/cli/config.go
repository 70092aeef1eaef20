package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ralt/rpmaudit/internal/models"
	"github.com/ralt/rpmaudit/internal/report"
	"github.com/ralt/rpmaudit/internal/rpmdb"
	"github.com/ralt/rpmaudit/internal/signer"
	"github.com/ralt/rpmaudit/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps config keys to the persistent flags that override them
var flagKeys = map[string]string{
	"dbpath":                 "dbpath",
	"dbfile":                 "dbfile",
	"output.compress":        "compress",
	"signing.gpg_key":        "gpg-key",
	"signing.gpg_passphrase": "gpg-passphrase",
}

// loadConfig merges defaults, the config file, environment and flags
func loadConfig(cmd *cobra.Command) (*models.AuditConfig, error) {
	v := viper.New()
	setDefaults(v)

	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("/etc/rpmaudit")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables; RPM_DBPATH matches librpm
	v.SetEnvPrefix("RPMAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("dbpath", "RPMAUDIT_DBPATH", "RPM_DBPATH"); err != nil {
		return nil, invalidConfig(err)
	}

	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, invalidConfig(err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is OK, we'll use defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, invalidConfig(fmt.Errorf("failed to read config: %w", err))
		}
	} else {
		logrus.Debugf("Using config file %s", v.ConfigFileUsed())
	}

	var cfg models.AuditConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, invalidConfig(err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	logrus.Debugf("Configuration: dbpath=%s dbfile=%s thresholds=%+v compress=%s",
		cfg.DBPath, cfg.DBFile, cfg.Thresholds, cfg.Output.Compress)
	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	defaults := models.DefaultThresholds()

	v.SetDefault("dbpath", rpmdb.DefaultPath)
	v.SetDefault("dbfile", rpmdb.DefaultFile)
	v.SetDefault("thresholds.name_mismatch", defaults.NameMismatch)
	v.SetDefault("thresholds.duplicate_names", defaults.DuplicateNames)
	v.SetDefault("thresholds.max_kernels", defaults.MaxKernels)
	v.SetDefault("output.compress", string(utils.CompressNone))
	v.SetDefault("signing.gpg_key", "")
	v.SetDefault("signing.gpg_passphrase", "")
}

func validateConfig(cfg *models.AuditConfig) error {
	if cfg.DBPath == "" {
		return invalidConfig(fmt.Errorf("dbpath is required"))
	}
	if cfg.DBFile == "" {
		return invalidConfig(fmt.Errorf("dbfile is required"))
	}

	t := cfg.Thresholds
	if t.NameMismatch < 0 || t.DuplicateNames < 0 || t.MaxKernels < 0 {
		return invalidConfig(fmt.Errorf("thresholds must not be negative: %+v", t))
	}

	if _, err := utils.ParseCompression(cfg.Output.Compress); err != nil {
		return invalidConfig(err)
	}

	return nil
}

func invalidConfig(err error) error {
	return &models.AuditError{
		Type: models.ErrInvalidConfig,
		Err:  err,
	}
}

// newReportWriter builds the artifact writer, loading the signing key if set
func newReportWriter(cfg *models.AuditConfig) (*report.Writer, error) {
	compression, err := utils.ParseCompression(cfg.Output.Compress)
	if err != nil {
		return nil, invalidConfig(err)
	}

	if cfg.Signing.GPGKey == "" {
		return report.NewWriter(compression, nil), nil
	}

	gpgSigner, err := signer.NewGPGSigner(cfg.Signing.GPGKey, cfg.Signing.GPGPassphrase)
	if err != nil {
		return nil, &models.AuditError{
			Type: models.ErrSigning,
			Path: cfg.Signing.GPGKey,
			Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
		}
	}
	logrus.Info("GPG signer initialized")

	return report.NewWriter(compression, gpgSigner), nil
}
