// Command bindexpr parses binding expressions and prints their AST.
//
//	bindexpr parse 'Model.Count > 0 ? Model.Name : "none"'
//	bindexpr parse --format json 'Items[0]'
//	echo 'a + b' | bindexpr parse -
//	bindexpr bindings 'Text Model.Name; Visible Model.Count, 1'
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
