// Package config provides configuration loading for the PDF translator.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

// Duration wraps time.Duration so YAML values like "3s" or "500ms" parse.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML accepts either a duration string or raw nanoseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds all configuration for a translation run.
type Config struct {
	Model    ModelConfig    `yaml:"model"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// ModelConfig holds LLM provider settings.
type ModelConfig struct {
	APIKey               string  `yaml:"-"` // environment only, never from file
	Name                 string  `yaml:"name"`
	Temperature          float64 `yaml:"temperature"`
	TranslationMaxTokens int     `yaml:"translation_max_tokens"`
	SummaryMaxTokens     int     `yaml:"summary_max_tokens"`
}

// PipelineConfig holds sequencing, retry, and chunking settings.
type PipelineConfig struct {
	MaxRetries    int      `yaml:"max_retries"`
	RetryDelay    Duration `yaml:"retry_delay"`
	PageDelay     Duration `yaml:"page_delay"`
	ChunkDelay    Duration `yaml:"chunk_delay"`
	MaxChunkChars int      `yaml:"max_chunk_chars"`
	ContextChars  int      `yaml:"context_chars"`
	ImageQuality  int      `yaml:"image_quality"`
}

// OutputConfig holds sink settings. CSVPath and SQLitePath are optional
// best-effort side sinks; Dir receives the two final text files.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	CSVPath    string `yaml:"csv_path"`
	SQLitePath string `yaml:"sqlite_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Temperature:          0.3,
			TranslationMaxTokens: 4000,
			SummaryMaxTokens:     2000,
		},
		Pipeline: PipelineConfig{
			MaxRetries:    3,
			RetryDelay:    Duration(3 * time.Second),
			PageDelay:     Duration(1 * time.Second),
			ChunkDelay:    Duration(1 * time.Second),
			MaxChunkChars: 10000,
			ContextChars:  200,
			ImageQuality:  85,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from an optional YAML file, then applies
// environment overrides. A missing API key is a config error: the run must
// fail before any page is processed.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError(fmt.Sprintf("cannot read config file %s", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError(fmt.Sprintf("cannot parse config file %s", path), err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.Model.Name = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.Model.APIKey == "" {
		return domain.ConfigError("OPENROUTER_API_KEY environment variable not set", nil)
	}
	if c.Pipeline.MaxRetries < 0 {
		return domain.ConfigError("pipeline.max_retries must not be negative", nil)
	}
	if c.Pipeline.MaxChunkChars <= 0 {
		return domain.ConfigError("pipeline.max_chunk_chars must be positive", nil)
	}
	if c.Pipeline.ContextChars <= 0 {
		return domain.ConfigError("pipeline.context_chars must be positive", nil)
	}
	if c.Pipeline.ImageQuality < 1 || c.Pipeline.ImageQuality > 100 {
		return domain.ConfigError(fmt.Sprintf("pipeline.image_quality must be between 1 and 100, got %d", c.Pipeline.ImageQuality), nil)
	}
	return nil
}
