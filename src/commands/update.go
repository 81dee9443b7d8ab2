package commands

import (
	"errors"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Protocol-Lattice/compoder/src/api"
	"github.com/Protocol-Lattice/compoder/src/config"
	"github.com/Protocol-Lattice/compoder/src/logging"
	"github.com/Protocol-Lattice/compoder/src/rules"
	"github.com/Protocol-Lattice/compoder/src/workspace"
)

// UpdateCommand returns the update command.
func UpdateCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Update Compoder rules based on .compoderrc configuration",
		Flags: []cli.Flag{
			apiBaseURLFlag(d),
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "Print a unified diff of every changed file",
			},
		},
		Action: func(c *cli.Context) error {
			return updateAction(c, d)
		},
	}
}

func updateAction(c *cli.Context, d Deps) error {
	status := logging.NewStatus(d.Stdout)
	dir, err := d.workDir()
	if err != nil {
		return fail(status, "Update failed: %v", err)
	}

	status.Info("Updating Compoder rules...")
	status.Info("Reading %s configuration...", config.FileName)
	cfg, err := config.LoadProject(dir)
	switch {
	case errors.Is(err, config.ErrNotInitialized):
		status.Error("%s file not found in the current directory.", config.FileName)
		status.Info("Please run 'compoder init' first to initialize the configuration.")
		return cli.Exit("", 1)
	case errors.Is(err, config.ErrInvalidConfig):
		status.Error("Invalid %s configuration.", config.FileName)
		status.Info("The configuration file must contain 'codegen' and 'aiClients' fields.")
		return cli.Exit("", 1)
	case err != nil:
		return fail(status, "Update failed: %v", err)
	}
	status.Success("Configuration loaded: codegen=%s, aiClients=%s", cfg.Codegen, strings.Join(cfg.AIClients, ", "))

	var clients []rules.Client
	for _, id := range cfg.AIClients {
		cl, err := rules.ParseClient(id)
		if err != nil {
			status.Warn("Unknown AI client: %s. Skipping...", id)
			continue
		}
		clients = append(clients, cl)
	}

	baseURL := c.String("api-base-url")
	client := api.New(baseURL, api.WithTimeout(d.Settings.Timeout))

	status.Info("Fetching latest codegen details for '%s'...", cfg.Codegen)
	detail, err := client.CodegenDetail(c.Context, cfg.Codegen)
	if err != nil {
		return fail(status, "Update failed: %v", err)
	}
	status.Success("Codegen details fetched")

	w := workspace.NewWriter(dir, workspace.WithDiffs(c.Bool("diff")))
	results, err := setupClients(c.Context, w, status, clients, cfg.Codegen, detail.Rules, baseURL)
	report(status, clients, results, c.Bool("diff"))
	if err != nil {
		return fail(status, "Update failed: %v", err)
	}

	status.Success("Rules updated successfully!")
	status.Info("The rule files have been regenerated based on the latest codegen configuration.")
	return nil
}
