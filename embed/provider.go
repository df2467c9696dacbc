package embed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Provider names accepted by New.
const (
	ProviderHashing = "hashing"
	ProviderOpenAI  = "openai"
)

// Config selects and configures an embedder.
type Config struct {
	Provider   string        `mapstructure:"provider" yaml:"provider"`
	Model      string        `mapstructure:"model" yaml:"model"`
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey     string        `mapstructure:"api_key" yaml:"api_key"`
	Dimensions int           `mapstructure:"dimensions" yaml:"dimensions"`
	BatchSize  int           `mapstructure:"batch_size" yaml:"batch_size"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
	CachePath  string        `mapstructure:"cache_path" yaml:"cache_path"`
}

// New builds the embedder described by cfg. The returned close function
// releases the cache, if one was opened, and is never nil.
func New(cfg Config, logger *slog.Logger) (Embedder, func() error, error) {
	noop := func() error { return nil }

	var e Embedder
	var model string

	switch strings.ToLower(cfg.Provider) {
	case "", ProviderHashing:
		h := NewHashing(cfg.Dimensions)
		e = h
		model = fmt.Sprintf("hashing-%d", h.Dimensions())
	case ProviderOpenAI:
		o := NewOpenAI(OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			Dimensions: cfg.Dimensions,
			BatchSize:  cfg.BatchSize,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
			Logger:     logger,
		})
		e = o
		model = o.Model()
		if cfg.Dimensions > 0 {
			model = fmt.Sprintf("%s@%d", model, cfg.Dimensions)
		}
	default:
		return nil, noop, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	if cfg.CachePath == "" {
		return e, noop, nil
	}

	cache, err := OpenCache(cfg.CachePath, model, e)
	if err != nil {
		return nil, noop, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	n, err := cache.Len(context.Background())
	if err != nil {
		cache.Close()
		return nil, noop, err
	}
	logger.Info("embedding cache opened", "path", cfg.CachePath, "model", model, "entries", n)

	return cache, cache.Close, nil
}
