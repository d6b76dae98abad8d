package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/bindexpr/pkg/config"
	"github.com/sandrolain/bindexpr/pkg/parser"
	"github.com/sandrolain/bindexpr/pkg/types"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Empty(t, cfg.ParserOptions())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindexpr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
parser:
  quote_tokens: ["'"]
  escapes:
    n: "\n"
    q: "'"
  float_fallback: uint64
  max_depth: 64
cache:
  size: 128
log:
  level: DEBUG
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"'"}, cfg.Parser.QuoteTokens)
	assert.Equal(t, 128, cfg.Cache.Size)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	p := parser.New(cfg.ParserOptions()...)
	opts := p.Options()
	assert.Equal(t, 64, opts.MaxDepth)
	assert.Equal(t, parser.FloatFallbackUInt64, opts.FloatFallback)
	assert.Equal(t, map[rune]string{'n': "\n", 'q': "'"}, opts.Escapes)

	expr, err := p.Parse(`'it\qs'`)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.StringConstant("it's"), expr.AST()))

	_, err = p.Parse(`"double"`)
	assert.Error(t, err, "double quotes are no longer delimiters")
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name       string
		yaml       string
		validation bool
	}{
		{"unknown key", "parser:\n  quotes: ['\"']\n", false},
		{"bad fallback", "parser:\n  float_fallback: half\n", true},
		{"long escape key", "parser:\n  escapes:\n    nl: \"\\n\"\n", true},
		{"empty quote", "parser:\n  quote_tokens: ['']\n", true},
		{"negative depth", "parser:\n  max_depth: -1\n", true},
		{"negative cache", "cache:\n  size: -5\n", true},
		{"bad level", "log:\n  level: loud\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			require.Error(t, err)
			if tt.validation {
				assert.ErrorIs(t, err, config.ErrConfigValidation)
			} else {
				assert.NotErrorIs(t, err, config.ErrConfigValidation)
			}
		})
	}
}

func TestEmptyLevelIsInfo(t *testing.T) {
	level, err := config.LogConfig{}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
