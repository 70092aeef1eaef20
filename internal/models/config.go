package models

// Thresholds tune the consistency checks
type Thresholds struct {
	NameMismatch   int `mapstructure:"name_mismatch"`   // Tolerated |decoded - Name rows|
	DuplicateNames int `mapstructure:"duplicate_names"` // Tolerated distinct duplicated names
	MaxKernels     int `mapstructure:"max_kernels"`     // Kernel packages before "too many"
}

// DefaultThresholds returns the stock check tolerances
func DefaultThresholds() Thresholds {
	return Thresholds{
		NameMismatch:   10,
		DuplicateNames: 10,
		MaxKernels:     5,
	}
}

// OutputConfig controls how report artifacts are written
type OutputConfig struct {
	Compress string `mapstructure:"compress"` // none, gzip, xz, zstd
}

// SigningConfig holds the OpenPGP key used to sign artifacts
type SigningConfig struct {
	GPGKey        string `mapstructure:"gpg_key"`
	GPGPassphrase string `mapstructure:"gpg_passphrase"`
}

// AuditConfig contains configuration for an audit run
type AuditConfig struct {
	// Database location
	DBPath string `mapstructure:"dbpath"`
	DBFile string `mapstructure:"dbfile"`

	Thresholds Thresholds    `mapstructure:"thresholds"`
	Output     OutputConfig  `mapstructure:"output"`
	Signing    SigningConfig `mapstructure:"signing"`

	// Artifact path, set per command
	ReportPath string `mapstructure:"-"`
}
