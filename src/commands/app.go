// Package commands provides the CLI commands of the compoder binary.
package commands

import (
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Protocol-Lattice/compoder/src/config"
	"github.com/Protocol-Lattice/compoder/src/logging"
	"github.com/Protocol-Lattice/compoder/src/ui"
)

// Version is reported by --version and to MCP clients.
const Version = config.Version

// Deps are the process resources the commands run against. Zero values
// fall back to the real process streams and working directory.
type Deps struct {
	Settings config.Settings
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Prompter ui.Prompter
	WorkDir  string
}

func (d Deps) withDefaults() Deps {
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.Prompter == nil {
		d.Prompter = ui.TeaPrompter{In: d.Stdin, Out: d.Stdout}
	}
	return d
}

// workDir is resolved per invocation so a Deps value can outlive a chdir.
func (d Deps) workDir() (string, error) {
	if d.WorkDir != "" {
		return d.WorkDir, nil
	}
	return os.Getwd()
}

// NewApp assembles the command tree. The caller sets ExitErrHandler.
func NewApp(d Deps) *cli.App {
	d = d.withDefaults()
	return &cli.App{
		Name:      "compoder",
		Usage:     "Compoder CLI - AI-Powered Component Code Generator",
		Version:   Version,
		Reader:    d.Stdin,
		Writer:    d.Stdout,
		ErrWriter: d.Stderr,
		Commands: []*cli.Command{
			MCPCommand(d),
			InitCommand(d),
			UpdateCommand(d),
			DecodeCommand(d),
		},
	}
}

func apiBaseURLFlag(d Deps) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "api-base-url",
		Usage: "Base URL for the Compoder API",
		Value: d.Settings.APIBaseURL,
	}
}

// fail prints msg as an error status line and exits with 1.
func fail(status *logging.Status, format string, args ...any) error {
	status.Error(format, args...)
	return cli.Exit("", 1)
}

// cancelled reports whether err means the user backed out of a prompt.
func cancelled(err error) bool {
	return errors.Is(err, ui.ErrAborted)
}
