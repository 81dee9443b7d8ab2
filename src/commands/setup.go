package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Protocol-Lattice/compoder/src/api"
	"github.com/Protocol-Lattice/compoder/src/logging"
	"github.com/Protocol-Lattice/compoder/src/rules"
	"github.com/Protocol-Lattice/compoder/src/workspace"
)

// setupClients writes the MCP registration and rule files of every client
// under the project lock. Clients own disjoint paths and run concurrently;
// the returned actions are grouped per client in input order.
func setupClients(ctx context.Context, w *workspace.Writer, status *logging.Status, clients []rules.Client, codegen string, codegenRules []api.Rule, apiBaseURL string) ([][]workspace.FileAction, error) {
	warned := false
	release, err := workspace.AcquireLock(ctx, w.Root(), func(time.Duration) {
		if !warned {
			status.Warn("Waiting for another compoder process to finish...")
			warned = true
		}
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = release() }()

	results := make([][]workspace.FileAction, len(clients))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range clients {
		g.Go(func() error {
			actions, err := setupClient(gctx, w, c, codegen, codegenRules, apiBaseURL)
			results[i] = actions
			if err != nil {
				return fmt.Errorf("set up %s: %w", c.Label(), err)
			}
			return nil
		})
	}
	return results, g.Wait()
}

// setupClient stops before the next write once ctx is done, so a failing
// sibling client leaves the remaining files untouched.
func setupClient(ctx context.Context, w *workspace.Writer, c rules.Client, codegen string, codegenRules []api.Rule, apiBaseURL string) ([]workspace.FileAction, error) {
	var actions []workspace.FileAction

	existing, err := w.Read(c.MCPConfigPath())
	if err != nil {
		return nil, err
	}
	cfg, err := rules.MergeMCPConfig(existing, rules.Registration(codegen, apiBaseURL))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, err := w.WriteJSON(c.MCPConfigPath(), cfg)
	if err != nil {
		return nil, err
	}
	actions = append(actions, a)

	files, err := rules.Files(c, codegen, codegenRules)
	if err != nil {
		return actions, err
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return actions, err
		}
		a, err := w.Write(f.Path, f.Content)
		if err != nil {
			return actions, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// report prints one status line per written file, and the diff of changed
// files when showDiff is set.
func report(status *logging.Status, clients []rules.Client, results [][]workspace.FileAction, showDiff bool) {
	for i, actions := range results {
		if len(actions) == 0 {
			continue
		}
		status.Info("%s:", clients[i].Label())
		for _, a := range actions {
			switch a.Status {
			case workspace.StatusCreated:
				status.Success("created %s", a.Path)
			case workspace.StatusUpdated:
				status.Success("updated %s", a.Path)
			default:
				status.Plain("  unchanged %s", a.Path)
			}
			if showDiff && a.Status != workspace.StatusUnchanged && a.Diff != "" {
				for _, line := range strings.Split(strings.TrimRight(a.Diff, "\n"), "\n") {
					status.Plain("%s", line)
				}
			}
		}
	}
}
