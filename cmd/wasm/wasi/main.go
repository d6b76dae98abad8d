//go:build wasip1

// Command bindexpr-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "expression": "<binding expression>" }
//	        { "bindings":   "<declaration list>"   }
//	stdout: { "ast": <node>, "text": "<canonical>" }  for an expression
//	        { "bindings": [ ... ] }                   for a declaration list
//	        { "error": "<message>", "code": "B0102" }  on failure (exit code 1)
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o bindexpr.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"expression":"Model.Name"}' | wasmtime bindexpr.wasm
package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/sandrolain/bindexpr"
	"github.com/sandrolain/bindexpr/pkg/types"
)

type request struct {
	Expression *string `json:"expression,omitempty"`
	Bindings   *string `json:"bindings,omitempty"`
}

type response struct {
	AST      types.Node                 `json:"ast,omitempty"`
	Text     string                     `json:"text,omitempty"`
	Bindings []types.BindingDeclaration `json:"bindings,omitempty"`
	Error    string                     `json:"error,omitempty"`
	Code     types.ErrorCode            `json:"code,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func fail(err error) {
	r := response{Error: err.Error()}
	var perr *types.Error
	if errors.As(err, &perr) {
		r.Code = perr.Code
	}
	writeResponse(r, 1)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	switch {
	case req.Expression != nil:
		expr, err := bindexpr.Parse(*req.Expression)
		if err != nil {
			fail(err)
		}
		writeResponse(response{AST: expr.AST(), Text: expr.AST().String()}, 0)
	case req.Bindings != nil:
		decls, err := bindexpr.ParseBindings(*req.Bindings)
		if err != nil {
			fail(err)
		}
		writeResponse(response{Bindings: decls}, 0)
	default:
		writeResponse(response{Error: `request needs "expression" or "bindings"`}, 1)
	}
}
