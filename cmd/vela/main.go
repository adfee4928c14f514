// Package main is the script runner entry point, trimmed from
// duso's cmd/duso/main.go: flag-based CLI, one script path argument,
// no REPL/LSP/debug-protocol surface (those belonged to pkg/cli,
// dropped per DESIGN.md).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vela-lang/vela/pkg/lang"
	"github.com/vela-lang/vela/pkg/stdlib"
	"github.com/vela-lang/vela/pkg/value"
)

// Version is set at build time via -ldflags, matching the teacher's
// own cmd/duso/main.go convention.
var Version = "dev"

func main() {
	datastoreDSN := flag.String("datastore-dsn", "", "Postgres DSN for the datastore() global (disabled if empty)")
	noColor := flag.Bool("no-color", false, "Disable ANSI output (reserved for future terminal rendering)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()
	_ = noColor

	if *showVersion {
		fmt.Printf("vela %s\n", Version)
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: vela [-datastore-dsn dsn] [-no-color] <script.vela>")
		os.Exit(1)
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "vela: %v\n", err)
		os.Exit(1)
	}

	if err := run(string(source), *datastoreDSN); err != nil {
		fmt.Fprintf(os.Stderr, "vela: %v\n", err)
		os.Exit(1)
	}
}

func run(source, datastoreDSN string) error {
	interp := lang.New()

	stdlib.RegisterConsole(interp.Global, os.Stdout, os.Stdin)
	stdlib.RegisterJSON(interp.Global)
	stdlib.RegisterCrypto(interp.Global)
	if err := stdlib.RegisterMarkdown(interp.Global); err != nil {
		return fmt.Errorf("registering markdown bindings: %w", err)
	}
	if err := stdlib.RegisterHTML(); err != nil {
		return fmt.Errorf("registering html bindings: %w", err)
	}
	if datastoreDSN != "" {
		ds, err := stdlib.NewDatastore(context.Background(), datastoreDSN)
		if err != nil {
			return fmt.Errorf("connecting datastore: %w", err)
		}
		defer ds.Close()
		ds.RegisterDatastore(interp.Global)
	}

	value.LockPrototypes()

	lexer := lang.NewLexer(source)
	tokens := lexer.Tokenize()

	parser := lang.NewParser(tokens)
	program, err := parser.Parse()
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	_, err = interp.Run(program)
	return err
}
