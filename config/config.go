// Package config loads outline's settings from a YAML file, OUTLINE_
// environment variables and built-in defaults, in that order of precedence
// below explicit flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/tsawler/outline/embed"
	"github.com/tsawler/outline/heading"
	"github.com/tsawler/outline/reader"
	"github.com/tsawler/outline/tables"
)

// EnvPrefix prefixes every environment variable, e.g. OUTLINE_THRESHOLDS_H1.
const EnvPrefix = "OUTLINE"

// Config is the complete configuration.
type Config struct {
	Scoring    heading.Weights    `mapstructure:"scoring" yaml:"scoring"`
	Thresholds heading.Thresholds `mapstructure:"thresholds" yaml:"thresholds"`
	Tables     TablesConfig       `mapstructure:"tables" yaml:"tables"`
	Language   LanguageConfig     `mapstructure:"language" yaml:"language"`
	Embedding  embed.Config       `mapstructure:"embedding" yaml:"embedding"`
	Output     OutputConfig       `mapstructure:"output" yaml:"output"`
	Reader     ReaderConfig       `mapstructure:"reader" yaml:"reader"`
	Log        LogConfig          `mapstructure:"log" yaml:"log"`
	Server     ServerConfig       `mapstructure:"server" yaml:"server"`
}

// TablesConfig controls table detection and the exclusion of table lines
// from outlines.
type TablesConfig struct {
	Enabled              bool    `mapstructure:"enabled" yaml:"enabled"`
	ContainmentTolerance float64 `mapstructure:"containment_tolerance" yaml:"containment_tolerance"`
	MinRows              int     `mapstructure:"min_rows" yaml:"min_rows"`
	MinCols              int     `mapstructure:"min_cols" yaml:"min_cols"`
	MinConfidence        float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
	RequireRules         bool    `mapstructure:"require_rules" yaml:"require_rules"`
}

// LanguageConfig controls language detection.
type LanguageConfig struct {
	SamplePages int    `mapstructure:"sample_pages" yaml:"sample_pages"`
	Default     string `mapstructure:"default" yaml:"default"`
}

// OutputConfig controls the written records.
type OutputConfig struct {
	RefinedLength int  `mapstructure:"refined_length" yaml:"refined_length"`
	Validate      bool `mapstructure:"validate" yaml:"validate"`
}

// ReaderConfig controls PDF decoding.
type ReaderConfig struct {
	Validate bool `mapstructure:"validate" yaml:"validate"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// Load reads configuration. cfgFile may be empty, in which case
// outline.yaml is looked up in the working directory and $HOME/.outline; a
// missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("outline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.outline")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Embedding.APIKey = ResolveEnvVars(cfg.Embedding.APIKey)
	cfg.Embedding.BaseURL = ResolveEnvVars(cfg.Embedding.BaseURL)
	cfg.Embedding.CachePath = ResolveEnvVars(cfg.Embedding.CachePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later in a run.
func (c *Config) Validate() error {
	if err := c.Heading().Validate(); err != nil {
		return err
	}
	switch strings.ToLower(c.Embedding.Provider) {
	case "", embed.ProviderHashing, embed.ProviderOpenAI:
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	if c.Language.SamplePages < 0 {
		return fmt.Errorf("language.sample_pages must not be negative")
	}
	return nil
}

// Heading returns the scoring configuration.
func (c *Config) Heading() heading.Config {
	return heading.Config{Scoring: c.Scoring, Thresholds: c.Thresholds}
}

// ReaderOptions returns the PDF decoding options.
func (c *Config) ReaderOptions() reader.Options {
	opts := reader.DefaultOptions()
	opts.Validate = c.Reader.Validate
	opts.TablesEnabled = c.Tables.Enabled
	opts.Tables = c.TableDetection()
	return opts
}

// TableDetection returns the detector configuration.
func (c *Config) TableDetection() tables.Config {
	tc := tables.DefaultConfig()
	tc.MinRows = c.Tables.MinRows
	tc.MinCols = c.Tables.MinCols
	tc.MinConfidence = c.Tables.MinConfidence
	tc.RequireRules = c.Tables.RequireRules
	return tc
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}
