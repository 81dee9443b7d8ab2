// Package main provides the compoder CLI entrypoint.
//
// Usage:
//
//	compoder mcp server <codegenName> [--api-base-url URL] [--debug] [--http ADDR]
//	compoder init [--api-base-url URL]
//	compoder update [--api-base-url URL] [--diff]
//	compoder decode [FILE|-] [--out DIR] [--live]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Protocol-Lattice/compoder/src/commands"
	"github.com/Protocol-Lattice/compoder/src/config"
)

func main() {
	app := commands.NewApp(commands.Deps{Settings: config.Load()})
	app.ExitErrHandler = exitErrHandler

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit and prints anything
// else as an error.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N) reports "exit status N"; the command already printed.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
