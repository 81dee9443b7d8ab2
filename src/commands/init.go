package commands

import (
	"errors"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Protocol-Lattice/compoder/src/api"
	"github.com/Protocol-Lattice/compoder/src/config"
	"github.com/Protocol-Lattice/compoder/src/logging"
	"github.com/Protocol-Lattice/compoder/src/rules"
	"github.com/Protocol-Lattice/compoder/src/ui"
	"github.com/Protocol-Lattice/compoder/src/workspace"
)

// InitCommand returns the init command.
func InitCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize Compoder configuration for the current project",
		Flags: []cli.Flag{apiBaseURLFlag(d)},
		Action: func(c *cli.Context) error {
			return initAction(c, d)
		},
	}
}

func initAction(c *cli.Context, d Deps) error {
	status := logging.NewStatus(d.Stdout)
	dir, err := d.workDir()
	if err != nil {
		return fail(status, "Initialization failed: %v", err)
	}
	baseURL := c.String("api-base-url")
	client := api.New(baseURL, api.WithTimeout(d.Settings.Timeout))

	status.Info("Initializing Compoder configuration...")
	status.Info("Fetching available codegens...")
	list, err := client.CodegenList(c.Context)
	if err != nil {
		return fail(status, "Initialization failed: %v", err)
	}

	var codegenChoices []ui.Choice
	for _, name := range list.Names() {
		info := list.Codegens[name]
		codegenChoices = append(codegenChoices, ui.Choice{
			Label: info.Title + " - " + info.Description,
			Value: info.Title,
			Hint:  info.Title,
		})
	}
	if len(codegenChoices) == 0 {
		return fail(status, "No codegens available. Please check your API server.")
	}

	picked, err := d.Prompter.Select("Select a codegen to initialize:", codegenChoices)
	if cancelled(err) {
		status.Warn("Initialization cancelled.")
		return nil
	}
	if err != nil {
		return fail(status, "Initialization failed: %v", err)
	}
	status.Success("Selected codegen: %s", picked.Value)

	var clientChoices []ui.Choice
	for _, cl := range rules.Clients {
		clientChoices = append(clientChoices, ui.Choice{
			Label:   cl.Label(),
			Value:   string(cl),
			Checked: cl == rules.ClientCursor,
		})
	}
	selected, err := d.Prompter.MultiSelect(
		"Select AI clients to initialize (use space to select, enter to confirm):",
		clientChoices,
		func(cs []ui.Choice) error {
			if len(cs) == 0 {
				return errors.New("You must select at least one AI client.")
			}
			return nil
		},
	)
	if cancelled(err) {
		status.Warn("Initialization cancelled.")
		return nil
	}
	if err != nil {
		return fail(status, "Initialization failed: %v", err)
	}

	var (
		clients []rules.Client
		ids     []string
	)
	for _, ch := range selected {
		cl, err := rules.ParseClient(ch.Value)
		if err != nil {
			return fail(status, "Initialization failed: %v", err)
		}
		clients = append(clients, cl)
		ids = append(ids, string(cl))
	}
	if len(clients) == 0 {
		return fail(status, "You must select at least one AI client.")
	}
	status.Success("Selected AI clients: %s", strings.Join(ids, ", "))

	if config.ProjectExists(dir) {
		overwrite, err := d.Prompter.Confirm(config.FileName+" already exists. Overwrite?", false)
		if err != nil && !cancelled(err) {
			return fail(status, "Initialization failed: %v", err)
		}
		if !overwrite {
			status.Warn("Initialization cancelled.")
			return nil
		}
	}

	w := workspace.NewWriter(dir)
	cfg := config.ProjectConfig{Codegen: picked.Value, AIClients: ids, Version: config.Version}
	if _, err := w.WriteJSON(config.FileName, cfg); err != nil {
		return fail(status, "Initialization failed: %v", err)
	}
	status.Success("Created %s configuration file", config.FileName)

	status.Info("Fetching codegen details...")
	detail, err := client.CodegenDetail(c.Context, picked.Value)
	if err != nil {
		return fail(status, "Initialization failed: %v", err)
	}
	status.Success("Codegen details fetched")

	results, err := setupClients(c.Context, w, status, clients, picked.Value, detail.Rules, baseURL)
	report(status, clients, results, false)
	if err != nil {
		return fail(status, "Initialization failed: %v", err)
	}

	status.Success("Initialization completed successfully!")
	status.Info("Next steps:")
	status.Plain("1. Make sure your Compoder API server is running")
	status.Plain("2. Start using Compoder rules in your AI client to generate components")
	return nil
}
