//go:build js && wasm

// Command bindexpr-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `bindexpr` object with the following API:
//
//	bindexpr.version()            → string
//	bindexpr.parse(source)        → astJSON      (throws on error)
//	bindexpr.format(source)       → string       (canonical text, throws on error)
//	bindexpr.bindings(source)     → bindingsJSON (throws on error)
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o bindexpr.wasm ./cmd/wasm/js/
//
// Usage in Node.js:
//
//	const ast = JSON.parse(bindexpr.parse('Model.Items[0].Name'))
//	console.log(ast.kind) // 'member'
package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/sandrolain/bindexpr"
)

// A single engine serves every call; its cache survives between calls.
var engine = bindexpr.New(bindexpr.WithCache(512))

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	panic(js.Global().Get("Error").New(msg))
}

func sourceArg(name string, args []js.Value) string {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		jsThrow(fmt.Sprintf("bindexpr.%s requires 1 argument: source (string)", name))
	}
	return args[0].String()
}

func marshal(name string, v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		jsThrow(fmt.Sprintf("bindexpr.%s: marshal result: %v", name, err))
	}
	return string(out)
}

// jsParse implements bindexpr.parse(source) → astJSON.
func jsParse(_ js.Value, args []js.Value) any {
	expr, err := engine.Parse(sourceArg("parse", args))
	if err != nil {
		jsThrow(fmt.Sprintf("bindexpr.parse: %v", err))
	}
	return marshal("parse", expr.AST())
}

// jsFormat implements bindexpr.format(source) → string.
func jsFormat(_ js.Value, args []js.Value) any {
	expr, err := engine.Parse(sourceArg("format", args))
	if err != nil {
		jsThrow(fmt.Sprintf("bindexpr.format: %v", err))
	}
	return expr.AST().String()
}

// jsBindings implements bindexpr.bindings(source) → bindingsJSON.
func jsBindings(_ js.Value, args []js.Value) any {
	decls, err := engine.ParseBindings(sourceArg("bindings", args))
	if err != nil {
		jsThrow(fmt.Sprintf("bindexpr.bindings: %v", err))
	}
	return marshal("bindings", decls)
}

func main() {
	api := map[string]any{
		"parse":    js.FuncOf(jsParse),
		"format":   js.FuncOf(jsFormat),
		"bindings": js.FuncOf(jsBindings),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) any {
			return bindexpr.Version()
		}),
	}
	js.Global().Set("bindexpr", js.ValueOf(api))

	// Block forever: the JS event loop owns execution from here.
	select {}
}
