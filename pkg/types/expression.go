// Package types defines the data model shared by the parser and the
// expression-tree converter.
//
// This package contains type definitions for:
//   - Node: the immutable binding-expression AST
//   - BinaryTokenType, UnaryTokenType: operator tables with priorities
//   - Expression: a parsed expression with its source and diagnostics
//   - MemberInfo, MethodInfo, MemberResolver: the member resolution boundary
//   - Error, ErrorSink, Diagnostics: structured errors and the diagnostic sink
package types

// Expression is a parsed binding expression.
//
// The AST is immutable, so an Expression is safe for concurrent use by
// multiple goroutines once returned by the parser.
type Expression struct {
	ast    Node
	source string
	errors []error
}

// NewExpression creates a new Expression from an AST.
func NewExpression(ast Node, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
	}
}

// AST returns the root node of the expression.
func (e *Expression) AST() Node {
	return e.ast
}

// Source returns the original source text of the expression.
func (e *Expression) Source() string {
	return e.source
}

// Errors returns diagnostics reported while parsing that did not prevent
// an AST from being built.
func (e *Expression) Errors() []error {
	return e.errors
}

// AddError adds a diagnostic to the expression. Only the parser calls this,
// before the expression is published.
func (e *Expression) AddError(err error) {
	e.errors = append(e.errors, err)
}

// String returns the source text of the expression.
func (e *Expression) String() string {
	return e.source
}
