package parser

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/sandrolain/bindexpr/pkg/types"
)

// Option configures a Parser.
type Option func(*Options)

// Options holds parser configuration.
type Options struct {
	// MaxDepth limits dispatch-loop nesting to prevent stack overflow.
	MaxDepth int
	// QuoteTokens are the string delimiters, tried longest first.
	QuoteTokens []string
	// Escapes maps the character after a backslash to its decoded text in
	// non-verbatim strings.
	Escapes map[rune]string
	// FloatFallback selects the type of real literals without a suffix.
	FloatFallback FloatFallback
	// NumberSuffixes overrides or extends the numeric suffix table.
	NumberSuffixes map[string]NumberConverter
	// BinaryTokens are the recognized binary operators.
	BinaryTokens []*types.BinaryTokenType
	// UnaryTokens are the recognized unary operators.
	UnaryTokens []*types.UnaryTokenType
	// Recognizers are registered in addition to the default set.
	Recognizers []Recognizer
	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultQuoteTokens are the default string delimiters. The entity form
// lets expressions be embedded in markup attributes.
var DefaultQuoteTokens = []string{"&amp;", `"`, "'"}

// DefaultEscapes is the default escape map for non-verbatim strings.
var DefaultEscapes = map[rune]string{
	'\\': "\\",
	'0':  "\x00",
	'a':  "\a",
	'b':  "\b",
	'f':  "\f",
	'n':  "\n",
	'r':  "\r",
	't':  "\t",
	'v':  "\v",
}

func defaultOptions() Options {
	return Options{
		MaxDepth:      256,
		QuoteTokens:   slices.Clone(DefaultQuoteTokens),
		Escapes:       maps.Clone(DefaultEscapes),
		FloatFallback: FloatFallbackDouble,
		BinaryTokens:  slices.Clone(types.BinaryTokens),
		UnaryTokens:   slices.Clone(types.UnaryTokens),
	}
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithQuoteTokens replaces the string delimiters.
func WithQuoteTokens(tokens ...string) Option {
	return func(opts *Options) {
		opts.QuoteTokens = slices.Clone(tokens)
	}
}

// WithEscapes replaces the escape map.
func WithEscapes(escapes map[rune]string) Option {
	return func(opts *Options) {
		opts.Escapes = maps.Clone(escapes)
	}
}

// WithFloatFallback sets the type of real literals without a suffix.
func WithFloatFallback(fallback FloatFallback) Option {
	return func(opts *Options) {
		opts.FloatFallback = fallback
	}
}

// WithNumberSuffix registers or replaces a numeric suffix converter.
func WithNumberSuffix(suffix string, conv NumberConverter) Option {
	return func(opts *Options) {
		if opts.NumberSuffixes == nil {
			opts.NumberSuffixes = make(map[string]NumberConverter)
		}
		opts.NumberSuffixes[suffix] = conv
	}
}

// WithBinaryTokens replaces the binary operator table.
func WithBinaryTokens(tokens ...*types.BinaryTokenType) Option {
	return func(opts *Options) {
		opts.BinaryTokens = slices.Clone(tokens)
	}
}

// WithUnaryTokens replaces the unary operator table.
func WithUnaryTokens(tokens ...*types.UnaryTokenType) Option {
	return func(opts *Options) {
		opts.UnaryTokens = slices.Clone(tokens)
	}
}

// WithRecognizer registers an additional recognizer.
func WithRecognizer(r Recognizer) Option {
	return func(opts *Options) {
		opts.Recognizers = append(opts.Recognizers, r)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}
