// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nih-reporter-mcp server and CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/nih-reporter-mcp/internal/pubmed"
	"github.com/pdiddy/nih-reporter-mcp/internal/reporter"
	"github.com/pdiddy/nih-reporter-mcp/internal/secrets"
	"github.com/pdiddy/nih-reporter-mcp/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfg    types.Config
	logger *zap.Logger
)

// rootCmd is the base command. Running it without a subcommand starts the
// MCP stdio server, which is how assistant clients launch the binary.
var rootCmd = &cobra.Command{
	Use:   "nih-reporter-mcp",
	Short: "MCP server for the NIH RePORTER API",
	Long: `nih-reporter-mcp exposes the NIH RePORTER project and publication APIs as
MCP tools over stdio. Assistants call search_projects, search_publications,
search_combined, and test_connection; results come back as markdown reports
with bibliographic details filled in from PubMed.

Run with no arguments (or with serve) to start the stdio server. The search
subcommands run the same pipeline from the command line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFiles(); err != nil {
			return err
		}

		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c

		logger, err = buildLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		return applySecrets(&cfg)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nih-reporter-mcp.yaml or ~/.config/nih-reporter-mcp/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nih-reporter-mcp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nih-reporter-mcp"))
		}
	}

	viper.SetEnvPrefix("NIH_REPORTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadEnvFiles reads environment overrides from dotenv files. A local
// override wins over the shared file, and a missing file is not an error.
func loadEnvFiles() error {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return nil
}

// loadConfig resolves the effective configuration from defaults, the
// config file, and NIH_REPORTER_* environment variables.
func loadConfig() (types.Config, error) {
	defaults := types.NewDefaultConfig()
	viper.SetDefault("reporter.base_url", defaults.Reporter.BaseURL)
	viper.SetDefault("reporter.timeout", defaults.Reporter.Timeout)
	viper.SetDefault("reporter.user_agent", defaults.Reporter.UserAgent)
	viper.SetDefault("reporter.max_retries", defaults.Reporter.MaxRetries)
	viper.SetDefault("pubmed.base_url", defaults.PubMed.BaseURL)
	viper.SetDefault("pubmed.timeout", defaults.PubMed.Timeout)
	viper.SetDefault("pubmed.user_agent", defaults.PubMed.UserAgent)
	viper.SetDefault("pubmed.max_retries", defaults.PubMed.MaxRetries)
	viper.SetDefault("pubmed.api_key", "")
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("secrets_dir", defaults.SecretsDir)

	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("parsing configuration: %w", err)
	}
	return c, nil
}

// buildLogger builds the process logger. Logs go to stderr and the
// optional log file; stdout stays reserved for the MCP protocol.
func buildLogger(lc types.LogConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if lc.Level != "" {
		parsed, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", lc.Level, err)
		}
		level = parsed
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	if lc.File != "" {
		zc.OutputPaths = append(zc.OutputPaths, lc.File)
	}
	return zc.Build()
}

// applySecrets fills credentials from the secrets directory. Values set
// through the config file or environment win over secret files.
func applySecrets(c *types.Config) error {
	loaded, err := secrets.Load(c.SecretsDir)
	if err != nil {
		return err
	}
	if c.PubMed.APIKey == "" {
		c.PubMed.APIKey = loaded[secrets.NCBIAPIKey]
	}
	return nil
}

// newService wires the search pipeline from the loaded configuration.
func newService() *reporter.Service {
	return reporter.NewService(
		reporter.NewClient(cfg.Reporter),
		pubmed.NewClient(cfg.PubMed),
		logger,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
