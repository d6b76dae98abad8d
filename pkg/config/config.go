// Package config loads parser settings from a YAML file.
//
//	parser:
//	  quote_tokens: ['"', "'"]
//	  escapes: {n: "\n", t: "\t"}
//	  float_fallback: double
//	  max_depth: 128
//	cache:
//	  size: 1024
//	log:
//	  level: debug
//
// Unknown keys are rejected.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml"

	"github.com/sandrolain/bindexpr/pkg/parser"
)

// ErrConfigValidation is wrapped by every validation failure.
var ErrConfigValidation = errors.New("configuration validation failed")

// Config is the root of the configuration file.
type Config struct {
	Parser ParserConfig `yaml:"parser"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    LogConfig    `yaml:"log"`
}

// ParserConfig maps to parser options. Zero values keep the parser
// defaults.
type ParserConfig struct {
	QuoteTokens   []string          `yaml:"quote_tokens"`
	Escapes       map[string]string `yaml:"escapes"`
	FloatFallback string            `yaml:"float_fallback"`
	MaxDepth      int               `yaml:"max_depth"`
}

// CacheConfig sizes the expression cache. Zero disables it.
type CacheConfig struct {
	Size int `yaml:"size"`
}

// LogConfig sets the minimum log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the configuration at path. A missing file yields Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	for _, q := range cfg.Parser.QuoteTokens {
		if q == "" {
			return fmt.Errorf("%w: parser.quote_tokens: empty quote token", ErrConfigValidation)
		}
	}
	for key := range cfg.Parser.Escapes {
		if utf8.RuneCountInString(key) != 1 {
			return fmt.Errorf("%w: parser.escapes: key %q must be a single character", ErrConfigValidation, key)
		}
	}
	if _, err := parser.ParseFloatFallback(cfg.Parser.FloatFallback); err != nil {
		return fmt.Errorf("%w: parser.float_fallback: %w", ErrConfigValidation, err)
	}
	if cfg.Parser.MaxDepth < 0 {
		return fmt.Errorf("%w: parser.max_depth must not be negative", ErrConfigValidation)
	}
	if cfg.Cache.Size < 0 {
		return fmt.Errorf("%w: cache.size must not be negative", ErrConfigValidation)
	}
	if _, err := cfg.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrConfigValidation, err)
	}
	return nil
}

// ParserOptions converts the parser section to parser options.
func (c *Config) ParserOptions() []parser.Option {
	var opts []parser.Option
	p := c.Parser
	if len(p.QuoteTokens) > 0 {
		opts = append(opts, parser.WithQuoteTokens(p.QuoteTokens...))
	}
	if len(p.Escapes) > 0 {
		escapes := make(map[rune]string, len(p.Escapes))
		for key, value := range p.Escapes {
			r, _ := utf8.DecodeRuneInString(key)
			escapes[r] = value
		}
		opts = append(opts, parser.WithEscapes(escapes))
	}
	if p.FloatFallback != "" {
		fallback, _ := parser.ParseFloatFallback(p.FloatFallback)
		opts = append(opts, parser.WithFloatFallback(fallback))
	}
	if p.MaxDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(p.MaxDepth))
	}
	return opts
}

// SlogLevel parses the level name. An empty level is info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(l.Level))); err != nil {
		return 0, err
	}
	return level, nil
}
