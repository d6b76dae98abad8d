package parser

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sandrolain/bindexpr/pkg/types"
)

// FloatFallback selects the type of a real literal (one with a fraction or
// an exponent) that carries no suffix.
type FloatFallback int

const (
	// FloatFallbackDouble reads unsuffixed reals as float64.
	FloatFallbackDouble FloatFallback = iota
	// FloatFallbackUInt64 reads unsuffixed reals as uint64. The literal must
	// denote a non-negative integral value in range, such as 1e3 or 2.0;
	// anything else is rejected.
	FloatFallbackUInt64
)

// String returns the configuration name of f.
func (f FloatFallback) String() string {
	switch f {
	case FloatFallbackDouble:
		return "double"
	case FloatFallbackUInt64:
		return "uint64"
	default:
		return fmt.Sprintf("FloatFallback(%d)", int(f))
	}
}

// ParseFloatFallback parses a configuration name ("double" or "uint64").
func ParseFloatFallback(name string) (FloatFallback, error) {
	switch strings.ToLower(name) {
	case "", "double", "float64":
		return FloatFallbackDouble, nil
	case "uint64", "ulong":
		return FloatFallbackUInt64, nil
	}
	return 0, fmt.Errorf("unknown float fallback %q", name)
}

// NumberConverter converts the text of a numeric literal, without its
// suffix, to a value and its declared type. integer reports whether the
// text has neither a fraction nor an exponent. ok is false if the literal
// cannot be represented.
type NumberConverter func(value string, integer bool) (v any, typ reflect.Type, ok bool)

// DefaultNumberConverters returns a fresh suffix table.
//
//	""       int32, int64 or uint64 (narrowest that fits); reals per fallback
//	f F      float32
//	d D      float64
//	m M      decimal.Decimal
//	u U      uint32 or uint64; integers only
//	l L      int64 or uint64; integers only
//	ul lu    uint64 in any letter case; integers only
func DefaultNumberConverters(fallback FloatFallback) map[string]NumberConverter {
	toReal := convertFloat64
	if fallback == FloatFallbackUInt64 {
		toReal = convertIntegralFloat
	}
	plain := func(value string, integer bool) (any, reflect.Type, bool) {
		if integer {
			return convertInteger(value)
		}
		return toReal(value)
	}

	m := map[string]NumberConverter{
		"":  plain,
		"f": func(value string, _ bool) (any, reflect.Type, bool) { return convertFloat32(value) },
		"d": func(value string, _ bool) (any, reflect.Type, bool) { return convertFloat64(value) },
		"m": func(value string, _ bool) (any, reflect.Type, bool) { return convertDecimal(value) },
		"u": integerOnly(convertUInt),
		"l": integerOnly(convertLong),
	}
	for _, s := range []string{"f", "d", "m", "u", "l"} {
		m[strings.ToUpper(s)] = m[s]
	}
	for _, s := range []string{"ul", "UL", "Ul", "uL", "lu", "LU", "Lu", "lU"} {
		m[s] = integerOnly(convertULong)
	}
	return m
}

func integerOnly(conv func(string) (any, reflect.Type, bool)) NumberConverter {
	return func(value string, integer bool) (any, reflect.Type, bool) {
		if !integer {
			return nil, nil, false
		}
		return conv(value)
	}
}

func convertInteger(value string) (any, reflect.Type, bool) {
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, nil, false
	}
	switch {
	case u <= math.MaxInt32:
		return int32(u), types.Int32Type, true
	case u <= math.MaxInt64:
		return int64(u), types.Int64Type, true
	default:
		return u, types.UInt64Type, true
	}
}

func convertUInt(value string) (any, reflect.Type, bool) {
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, nil, false
	}
	if u <= math.MaxUint32 {
		return uint32(u), types.UInt32Type, true
	}
	return u, types.UInt64Type, true
}

func convertLong(value string) (any, reflect.Type, bool) {
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, nil, false
	}
	if u <= math.MaxInt64 {
		return int64(u), types.Int64Type, true
	}
	return u, types.UInt64Type, true
}

func convertULong(value string) (any, reflect.Type, bool) {
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, nil, false
	}
	return u, types.UInt64Type, true
}

func convertFloat32(value string) (any, reflect.Type, bool) {
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil, nil, false
	}
	return float32(f), types.Float32Type, true
}

func convertFloat64(value string) (any, reflect.Type, bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, nil, false
	}
	return f, types.Float64Type, true
}

func convertIntegralFloat(value string) (any, reflect.Type, bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f >= math.MaxUint64 {
		return nil, nil, false
	}
	return uint64(f), types.UInt64Type, true
}

func convertDecimal(value string) (any, reflect.Type, bool) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, nil, false
	}
	return d, types.DecimalType, true
}

// NumberRecognizer recognizes numeric literals: a digit run, an optional
// fraction, an optional exponent and an optional suffix. A `.` only starts
// a fraction when a digit follows it, so `1.ToString()` is a call on 1.
type NumberRecognizer struct {
	converters map[string]NumberConverter
}

// NewNumberRecognizer creates a number recognizer over a suffix table.
func NewNumberRecognizer(converters map[string]NumberConverter) *NumberRecognizer {
	return &NumberRecognizer{converters: converters}
}

// Priority implements Recognizer.
func (*NumberRecognizer) Priority() int { return PriorityNumber }

// TryParse implements Recognizer.
func (r *NumberRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if node != nil {
		return nil
	}
	start := ctx.SkipWhitespace()
	if !ctx.IsDigit() {
		return nil
	}

	pos := skipDigits(ctx, start)
	integer := true
	if ctx.IsTokenAt(".", pos) && ctx.IsDigitAt(pos+1) {
		pos = skipDigits(ctx, pos+1)
		integer = false
	}
	if ctx.IsTokenAt("e", pos) || ctx.IsTokenAt("E", pos) {
		exp := pos + 1
		if ctx.IsTokenAt("+", exp) || ctx.IsTokenAt("-", exp) {
			exp++
		}
		if !ctx.IsDigitAt(exp) {
			return nil
		}
		pos = skipDigits(ctx, exp)
		integer = false
	}
	value := ctx.Value(start, pos)

	suffix := ""
	if end, ok := ctx.IsIdentifierAt(pos); ok {
		suffix = ctx.Value(pos, end)
		pos = end
	}

	conv, ok := r.converters[suffix]
	if !ok {
		ctx.AddError(types.Errorf(types.ErrCodeInvalidNumber, start, "unknown numeric suffix %q", suffix).
			WithToken(ctx.Value(start, pos)))
		return nil
	}
	v, typ, ok := conv(value, integer)
	if !ok {
		ctx.AddError(types.Errorf(types.ErrCodeInvalidNumber, start, "invalid numeric literal %q", ctx.Value(start, pos)).
			WithToken(ctx.Value(start, pos)))
		return nil
	}

	ctx.SetPosition(pos)
	return types.NewConstant(v, typ)
}

func skipDigits(ctx *Context, pos int) int {
	for ctx.IsDigitAt(pos) {
		pos++
	}
	return pos
}
