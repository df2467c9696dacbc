package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/outline/embed"
	"github.com/tsawler/outline/heading"
	"github.com/tsawler/outline/langid"
	"github.com/tsawler/outline/report"
	"github.com/tsawler/outline/tables"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	h := heading.DefaultConfig()
	t := tables.DefaultConfig()

	return Config{
		Scoring:    h.Scoring,
		Thresholds: h.Thresholds,
		Tables: TablesConfig{
			Enabled:       true,
			MinRows:       t.MinRows,
			MinCols:       t.MinCols,
			MinConfidence: t.MinConfidence,
			RequireRules:  t.RequireRules,
		},
		Language: LanguageConfig{
			SamplePages: langid.DefaultSamplePages,
			Default:     langid.DefaultLanguage,
		},
		Embedding: embed.Config{
			Provider:   embed.ProviderHashing,
			Model:      embed.DefaultOpenAIModel,
			APIKey:     "${OPENAI_API_KEY}",
			BatchSize:  64,
			MaxRetries: 3,
		},
		Output: OutputConfig{
			RefinedLength: report.DefaultRefinedLength,
			Validate:      true,
		},
		Reader: ReaderConfig{Validate: true},
		Log:    LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{Addr: ":8080", MaxUploadMB: 64},
	}
}

// setDefaults registers every leaf key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("scoring.base_score_line_length", d.Scoring.BaseLineLength)
	v.SetDefault("scoring.font_size_p99", d.Scoring.FontSizeP99)
	v.SetDefault("scoring.font_size_p95", d.Scoring.FontSizeP95)
	v.SetDefault("scoring.font_size_p90", d.Scoring.FontSizeP90)
	v.SetDefault("scoring.font_weight_bold", d.Scoring.Bold)
	v.SetDefault("scoring.numbered_list_bonus", d.Scoring.NumberedList)
	v.SetDefault("scoring.ends_with_period_penalty", d.Scoring.EndsWithPeriod)

	v.SetDefault("thresholds.h1", d.Thresholds.H1)
	v.SetDefault("thresholds.h2", d.Thresholds.H2)
	v.SetDefault("thresholds.h3", d.Thresholds.H3)

	v.SetDefault("tables.enabled", d.Tables.Enabled)
	v.SetDefault("tables.containment_tolerance", d.Tables.ContainmentTolerance)
	v.SetDefault("tables.min_rows", d.Tables.MinRows)
	v.SetDefault("tables.min_cols", d.Tables.MinCols)
	v.SetDefault("tables.min_confidence", d.Tables.MinConfidence)
	v.SetDefault("tables.require_rules", d.Tables.RequireRules)

	v.SetDefault("language.sample_pages", d.Language.SamplePages)
	v.SetDefault("language.default", d.Language.Default)

	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.base_url", d.Embedding.BaseURL)
	v.SetDefault("embedding.api_key", d.Embedding.APIKey)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)
	v.SetDefault("embedding.batch_size", d.Embedding.BatchSize)
	v.SetDefault("embedding.max_retries", d.Embedding.MaxRetries)
	v.SetDefault("embedding.retry_delay", d.Embedding.RetryDelay)
	v.SetDefault("embedding.cache_path", d.Embedding.CachePath)

	v.SetDefault("output.refined_length", d.Output.RefinedLength)
	v.SetDefault("output.validate", d.Output.Validate)

	v.SetDefault("reader.validate", d.Reader.Validate)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
}

const defaultHeader = `# outline configuration
# Values can be overridden with OUTLINE_ environment variables, e.g.
#   OUTLINE_THRESHOLDS_H1=30 OUTLINE_EMBEDDING_PROVIDER=openai
# embedding.api_key uses ${ENV_VAR} syntax to reference the environment.

`

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(defaultHeader), data...), 0o644)
}
