package types

import "time"

// HTTPConfig holds shared HTTP settings used by services that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "nih-reporter-mcp/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retry attempts the transport makes on
	// HTTP 429 responses (default 3). The pipeline itself never retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ReporterConfig holds settings for the NIH RePORTER API client.
type ReporterConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the RePORTER v2 API root.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// PubMedConfig holds settings for the NCBI E-utilities client used to
// enrich publication records.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// LogConfig holds logging settings. Logs go to stderr and, when File is
// set, to that file as well; stdout stays reserved for the MCP protocol.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File is an optional log file path.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// Config groups all service configurations.
type Config struct {
	Reporter ReporterConfig `json:"reporter" yaml:"reporter" mapstructure:"reporter"`
	PubMed   PubMedConfig   `json:"pubmed" yaml:"pubmed" mapstructure:"pubmed"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`

	// SecretsDir is the directory of one-file secrets (e.g. ncbi-api-key).
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`
}

// NewDefaultConfig returns the configuration used when no config file or
// environment overrides are present.
func NewDefaultConfig() Config {
	return Config{
		Reporter: ReporterConfig{
			HTTPConfig: HTTPConfig{
				Timeout:    30 * time.Second,
				UserAgent:  "nih-reporter-mcp/0.1",
				MaxRetries: 3,
			},
			BaseURL: "https://api.reporter.nih.gov/v2",
		},
		PubMed: PubMedConfig{
			HTTPConfig: HTTPConfig{
				Timeout:    30 * time.Second,
				UserAgent:  "nih-reporter-mcp/0.1",
				MaxRetries: 3,
			},
			BaseURL: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
		},
		Log: LogConfig{
			Level: "info",
			File:  "mcp-nih-reporter.log",
		},
		SecretsDir: ".secrets/",
	}
}
