package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/embed"
	"github.com/tsawler/outline/langid"
	"github.com/tsawler/outline/pipeline"
	"github.com/tsawler/outline/reader"
	"github.com/tsawler/outline/report"
	"github.com/tsawler/outline/structure"
)

var (
	cfgFile      string
	logLevel     string
	logFormat    string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "outline",
	Short: "Extract document outlines and rank sections for a persona",
	Long: `outline reads PDF files and produces two kinds of JSON record.

The extract stage writes one outline per document: its title, detected
language and a list of H1/H2/H3 headings with page numbers. Headings are
found by scoring every line on font size, boldness, length and numbering.

The analyze stage splits every document into sections at its headings,
embeds them together with a persona and a task, and writes a single ranked
list of the most relevant sections.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./outline.yaml or ~/.outline/outline.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logFormat, "log-format", "", "log format: text or json (overrides config)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format for config show: yaml or json",
	)

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration, applies flag overrides and installs the logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newPipeline wires a pipeline from configuration. The returned function
// releases the embedding cache.
func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, func() error, error) {
	embedder, closeEmbedder, err := embed.New(cfg.Embedding, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding: %w", err)
	}

	ropts := cfg.ReaderOptions()
	ropts.Logger = logger

	builder := structure.NewBuilder(
		structure.WithConfig(cfg.Heading()),
		structure.WithLanguageDetector(langid.NewDetector(langid.NewWhatlang(), cfg.Language.Default, logger)),
		structure.WithSamplePages(cfg.Language.SamplePages),
		structure.WithTableTolerance(cfg.Tables.ContainmentTolerance),
		structure.WithLogger(logger),
	)

	p := pipeline.New(pipeline.Config{
		Decoder:   reader.NewDecoder(ropts),
		Builder:   builder,
		Embedder:  embedder,
		Formatter: report.Formatter{RefinedLength: cfg.Output.RefinedLength},
		Validate:  cfg.Output.Validate,
		Logger:    logger,
	})
	return p, closeEmbedder, nil
}
