package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/bindexpr/pkg/types"
)

// Cursor is a position over a source string with an optional upper limit.
//
// All reads are bounds checked against the limit: reading past it yields
// EOF rather than panicking. Recognizers read the source exclusively
// through a Cursor, never by indexing the string directly.
type Cursor struct {
	source   string
	position int
	limit    int
	metadata map[string]any
	errors   types.ErrorSink
}

// NewCursor creates a cursor over source. A nil sink discards diagnostics.
func NewCursor(source string, sink types.ErrorSink) *Cursor {
	c := &Cursor{errors: sink}
	c.Reset(source)
	return c
}

// Reset points the cursor at a new source and clears position, limit and
// metadata.
func (c *Cursor) Reset(source string) {
	c.source = source
	c.position = 0
	c.limit = len(source)
	c.metadata = nil
}

// Source returns the full source string.
func (c *Cursor) Source() string {
	return c.source
}

// Position returns the current byte offset.
func (c *Cursor) Position() int {
	return c.position
}

// SetPosition moves the cursor. The position is clamped to [0, limit].
func (c *Cursor) SetPosition(pos int) {
	c.position = max(0, min(pos, c.limit))
}

// Limit returns the current exclusive upper bound of the readable range.
func (c *Cursor) Limit() int {
	return c.limit
}

// SetLimit bounds reading to [0, limit) and returns the previous limit so
// callers can restore it. A negative or out-of-range limit restores the
// full source length.
func (c *Cursor) SetLimit(limit int) int {
	prev := c.limit
	if limit < 0 || limit > len(c.source) {
		limit = len(c.source)
	}
	c.limit = limit
	if c.position > limit {
		c.position = limit
	}
	return prev
}

// ClearLimit restores the full source length as the limit.
func (c *Cursor) ClearLimit() {
	c.limit = len(c.source)
}

// Metadata returns per-parse metadata, creating the map on first use.
func (c *Cursor) Metadata() map[string]any {
	if c.metadata == nil {
		c.metadata = make(map[string]any)
	}
	return c.metadata
}

// Errors returns the diagnostic sink.
func (c *Cursor) Errors() types.ErrorSink {
	return c.errors
}

// AddError reports a diagnostic to the sink.
func (c *Cursor) AddError(err error) {
	if c.errors != nil {
		c.errors.AddError(err)
	}
}

// IsEOF reports whether the current position is at the limit.
func (c *Cursor) IsEOF() bool {
	return c.IsEOFAt(c.position)
}

// IsEOFAt reports whether pos is at or beyond the limit.
func (c *Cursor) IsEOFAt(pos int) bool {
	return pos >= c.limit
}

// TokenAt returns the rune at pos and its width, or (0, 0) at EOF.
func (c *Cursor) TokenAt(pos int) (rune, int) {
	if pos < 0 || c.IsEOFAt(pos) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(c.source[pos:c.limit])
}

// IsToken reports whether literal starts at the current position.
func (c *Cursor) IsToken(literal string) bool {
	return c.IsTokenAt(literal, c.position)
}

// IsTokenAt reports whether literal starts at pos and ends within the limit.
func (c *Cursor) IsTokenAt(literal string, pos int) bool {
	if pos < 0 || pos+len(literal) > c.limit {
		return false
	}
	return strings.HasPrefix(c.source[pos:c.limit], literal)
}

// IsDigit reports whether the current rune is an ASCII digit.
func (c *Cursor) IsDigit() bool {
	return c.IsDigitAt(c.position)
}

// IsDigitAt reports whether the rune at pos is an ASCII digit.
func (c *Cursor) IsDigitAt(pos int) bool {
	r, _ := c.TokenAt(pos)
	return r >= '0' && r <= '9'
}

// IsIdentifier reports whether an identifier starts at the current position
// and returns its end offset.
func (c *Cursor) IsIdentifier() (int, bool) {
	return c.IsIdentifierAt(c.position)
}

// IsIdentifierAt reports whether an identifier (a letter or underscore
// followed by letters, digits or underscores) starts at pos, and returns
// its exclusive end offset.
func (c *Cursor) IsIdentifierAt(pos int) (int, bool) {
	r, size := c.TokenAt(pos)
	if size == 0 || !isIdentStart(r) {
		return pos, false
	}
	end := pos + size
	for {
		r, size = c.TokenAt(end)
		if size == 0 || !isIdentPart(r) {
			return end, true
		}
		end += size
	}
}

// SkipWhitespace advances past whitespace and returns the new position.
func (c *Cursor) SkipWhitespace() int {
	c.position = c.SkipWhitespaceAt(c.position)
	return c.position
}

// SkipWhitespaceAt returns the first non-whitespace offset at or after pos
// without moving the cursor.
func (c *Cursor) SkipWhitespaceAt(pos int) int {
	for {
		r, size := c.TokenAt(pos)
		if size == 0 || !unicode.IsSpace(r) {
			return pos
		}
		pos += size
	}
}

// Value returns the source text in [start, end), clamped to the limit.
func (c *Cursor) Value(start, end int) string {
	start = max(0, start)
	end = min(end, c.limit)
	if start >= end {
		return ""
	}
	return c.source[start:end]
}

// Rest returns the unread text up to the limit.
func (c *Cursor) Rest() string {
	return c.Value(c.position, c.limit)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
