package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Protocol-Lattice/compoder/src/api"
	"github.com/Protocol-Lattice/compoder/src/logging"
	"github.com/Protocol-Lattice/compoder/src/tools"
)

const (
	mcpCacheSize = 256
	mcpCacheTTL  = time.Minute
)

// MCPCommand returns the mcp command with its server subcommand.
func MCPCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Model Context Protocol related commands",
		Subcommands: []*cli.Command{
			mcpServerCommand(d),
		},
	}
}

func mcpServerCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:      "server",
		Usage:     "Start MCP server for the specified codegen",
		ArgsUsage: "<codegenName>",
		Flags: []cli.Flag{
			apiBaseURLFlag(d),
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: d.Settings.Debug,
			},
			&cli.StringFlag{
				Name:  "http",
				Usage: "Serve streamable HTTP on `ADDR` instead of stdio (e.g. " + d.Settings.MCPAddr() + ")",
			},
		},
		Action: func(c *cli.Context) error {
			return mcpServerAction(c, d)
		},
	}
}

// mcpServerAction serves the tools of one codegen. In stdio mode stdout
// carries protocol frames only, so everything else goes to the logger on
// stderr.
func mcpServerAction(c *cli.Context, d Deps) error {
	log := logging.New(c.Bool("debug"), d.Stderr)
	defer func() { _ = log.Sync() }()

	codegen := c.Args().First()
	if !tools.ValidCodegenName(codegen) {
		log.Error("invalid codegen name", zap.String("codegen", codegen))
		return cli.Exit("", 1)
	}

	baseURL := c.String("api-base-url")
	log.Info("starting mcp server", zap.String("codegen", codegen))
	log.Debug("api base url", zap.String("url", baseURL))

	client := api.New(baseURL,
		api.WithTimeout(d.Settings.Timeout),
		api.WithCache(mcpCacheSize, mcpCacheTTL),
		api.WithLogger(log),
	)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if client.HealthCheck(ctx) {
		log.Info("api connection verified")
	} else {
		log.Warn("api health check failed, but continuing...")
	}

	dispatcher := tools.NewDispatcher(client, tools.Options{BoundCodegen: codegen, Logger: log})
	srv := tools.NewServer(dispatcher, Version)

	var names []string
	for _, t := range dispatcher.Registry().Descriptors() {
		names = append(names, t.Name)
	}
	log.Info("mcp server started", zap.Strings("tools", names))

	var err error
	if addr := c.String("http"); addr != "" {
		err = tools.ServeHTTP(ctx, srv, addr, log)
	} else {
		err = tools.ServeStdio(ctx, srv, d.Stdin, d.Stdout, log)
	}
	if err != nil {
		log.Error("mcp server stopped", zap.Error(err))
		return cli.Exit("", 1)
	}
	return nil
}
