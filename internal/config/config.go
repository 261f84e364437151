package config

import "errors"

// Config is the top-level configuration struct for gitstats.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Repository RepositoryConfig `mapstructure:"repository"`
	Report     ReportConfig     `mapstructure:"report"`
}

// RepositoryConfig selects the repository and the history slice to analyze.
type RepositoryConfig struct {
	Path    string `mapstructure:"path"`
	Scope   string `mapstructure:"scope"`
	First   string `mapstructure:"first"`
	Last    string `mapstructure:"last"`
	Backend string `mapstructure:"backend"`
}

// ReportConfig holds output settings.
type ReportConfig struct {
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Precompute bool   `mapstructure:"precompute"`
}

// Supported repository backends.
const (
	BackendLibgit2 = "libgit2"
	BackendGoGit   = "gogit"
)

// Default configuration values.
const (
	DefaultRepositoryPath    = "."
	DefaultRepositoryBackend = BackendLibgit2
	DefaultReportFormat      = "text"
	DefaultReportOutput      = ""
	DefaultReportPrecompute  = true
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidBackend indicates an unknown repository backend name.
	ErrInvalidBackend = errors.New("repository.backend must be libgit2 or gogit")
	// ErrInvalidFormat indicates an unknown report format name.
	ErrInvalidFormat = errors.New("report.format must be text, json, yaml or html")
	// ErrEmptyRepositoryPath indicates the repository path is empty.
	ErrEmptyRepositoryPath = errors.New("repository.path must not be empty")
)

// validFormats is the set of accepted report format names.
var validFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
	"html": true,
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Repository.Path == "" {
		return ErrEmptyRepositoryPath
	}

	if c.Repository.Backend != BackendLibgit2 && c.Repository.Backend != BackendGoGit {
		return ErrInvalidBackend
	}

	if !validFormats[c.Report.Format] {
		return ErrInvalidFormat
	}

	return nil
}
