package commands

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Protocol-Lattice/compoder/src/artifact"
	"github.com/Protocol-Lattice/compoder/src/logging"
	"github.com/Protocol-Lattice/compoder/src/ui"
	"github.com/Protocol-Lattice/compoder/src/workspace"
)

// DecodeCommand returns the decode command, which turns a captured
// generation stream into files.
func DecodeCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode a generation stream into component files",
		ArgsUsage: "[FILE|-]",
		Flags: []cli.Flag{
			apiBaseURLFlag(d),
			&cli.StringFlag{
				Name:  "out",
				Usage: "Write decoded files under `DIR`",
				Value: ".",
			},
			&cli.BoolFlag{
				Name:  "live",
				Usage: "Show the stream in an interactive view while decoding",
			},
			&cli.StringFlag{
				Name:  "codegen-id",
				Usage: "Codegen id used to build the link to a new artifact",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: d.Settings.Debug,
			},
		},
		Action: func(c *cli.Context) error {
			return decodeAction(c, d)
		},
	}
}

func decodeAction(c *cli.Context, d Deps) error {
	status := logging.NewStatus(d.Stdout)
	log := logging.New(c.Bool("debug"), d.Stderr)
	defer func() { _ = log.Sync() }()

	dir, err := d.workDir()
	if err != nil {
		return fail(status, "Decode failed: %v", err)
	}

	var (
		r         io.Reader
		source    = "stdin"
		fromStdin = true
	)
	if arg := c.Args().First(); arg != "" && arg != "-" {
		f, err := os.Open(resolvePath(dir, arg))
		if err != nil {
			return fail(status, "Decode failed: %v", err)
		}
		defer f.Close()
		r, source, fromStdin = f, arg, false
	} else {
		r = d.Stdin
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := &artifact.Consumer{
		OnUpdate: func(u artifact.Update) {
			log.Debug("stream update",
				zap.Int("bytes", len(u.Content)),
				zap.Int("files", len(u.Result.Files())),
			)
		},
	}

	var outcome artifact.Outcome
	if c.Bool("live") {
		in := d.Stdin
		if fromStdin {
			in = nil
		}
		outcome, err = ui.RunGeneration(ctx, consumer, r, source, in, d.Stderr)
	} else {
		outcome, err = consumer.Consume(ctx, r)
	}
	if err == nil && ctx.Err() != nil {
		// an interrupted stream is partial, not finished
		err = ctx.Err()
	}

	var genErr *artifact.GenerationError
	switch {
	case errors.As(err, &genErr):
		return fail(status, "Generation failed: %s", genErr.Message)
	case errors.Is(err, context.Canceled):
		status.Warn("Decoding cancelled, no files written.")
		return nil
	case err != nil:
		return fail(status, "Decode failed: %v", err)
	}

	files := outcome.Result.Files()
	if len(files) == 0 {
		status.Warn("No files found in %s.", source)
	}

	w := workspace.NewWriter(resolvePath(dir, c.String("out")))
	for _, f := range files {
		a, err := w.Write(f.FileName, []byte(f.Content))
		if err != nil {
			return fail(status, "Decode failed: %v", err)
		}
		suffix := ""
		if f.IsEntryFile {
			suffix = " (entry)"
		}
		if a.Status == workspace.StatusUnchanged {
			status.Plain("  unchanged %s%s", a.Path, suffix)
		} else {
			status.Success("%s %s%s", a.Status, a.Path, suffix)
		}
	}

	baseURL := c.String("api-base-url")
	codegenID := c.String("codegen-id")
	gate := artifact.JumpGate{
		Navigate: func(id string) {
			if codegenID == "" {
				status.Info("New artifact: %s", id)
				return
			}
			status.Info("Open %s", artifactURL(baseURL, codegenID, id))
		},
	}
	gate.Resolve(outcome)
	return nil
}

// artifactURL is the page of a generated component in the web app.
func artifactURL(baseURL, codegenID, artifactID string) string {
	return strings.TrimRight(baseURL, "/") + "/main/codegen/" + url.PathEscape(codegenID) + "/" + url.PathEscape(artifactID)
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
