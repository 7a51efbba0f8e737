/*
metagen is a console utility for grammar descriptions written in meta notation.
Usage is

	metagen [--config <file>] [--log-level <level>] [--color auto|always|never] <command>

Commands:

	check <file>...                     compile grammar descriptions and report errors;
	gen [-f go|meta] [-o <file>] [-p <name>] [-v <name>] <file>
	                                    translate grammar description to Go source or normalized notation;
	parse -g <file> [-f text|json|yaml|tree] [<file or dir>...]
	                                    parse documents (standard input by default) and print events;
	serve [-g <dir>] [--addr <host:port>]
	                                    serve grammars from a directory over HTTP.

Configuration file is YAML, see internal/config for the fields. Command line flags override it.
*/
package main

import (
	"errors"
	"fmt"
	"os"
)

// errReported means that diagnostics were already printed.
var errReported = errors.New("failed")

func main() {
	if e := newRootCmd().Execute(); e != nil {
		if !errors.Is(e, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", e)
		}
		os.Exit(1)
	}
}
