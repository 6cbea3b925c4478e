package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ylchen07/businessmap-mcp-server/internal/app"
	"github.com/ylchen07/businessmap-mcp-server/internal/businessmap"
	"github.com/ylchen07/businessmap-mcp-server/internal/config"
	"github.com/ylchen07/businessmap-mcp-server/internal/logging"
	"github.com/ylchen07/businessmap-mcp-server/internal/telemetry"
)

const (
	serviceName     = "businessmap-mcp-server"
	serviceVersion  = "1.0.0"
	shutdownTimeout = 5 * time.Second
)

type serverStarter func(*app.Server, bool, string) error

// run parses args and starts the server. Log output goes to logOut; stdout stays free for
// the stdio transport.
func run(args []string, getenv func(string) string, logOut io.Writer, start serverStarter) error {
	cmd := newRootCommand(getenv, logOut, start)
	if len(args) > 1 {
		cmd.SetArgs(normalizeLegacyFlags(args[1:]))
	} else {
		cmd.SetArgs([]string{})
	}
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	return cmd.Execute()
}

func newRootCommand(getenv func(string) string, logOut io.Writer, start serverStarter) *cobra.Command {
	var useHTTP bool
	var httpAddr string

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "BusinessMap MCP Server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(getenv)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			logger := logging.New(logOut, cfg.Tokens()...)
			logger.Println("Starting BusinessMap MCP Server...")
			if cfg.InstancesFile != "" {
				logger.Printf("Loaded instances from %s", cfg.InstancesFile)
			}

			factory, err := businessmap.NewFactory(instanceConfigs(cfg), cfg.DefaultInstance, logger,
				businessmap.WithRateLimit(cfg.RateLimit, burst(cfg.RateLimit)),
				businessmap.WithRetryMax(cfg.RetryMax),
				businessmap.WithTimeout(cfg.Timeout),
				businessmap.WithLogger(logger),
			)
			if err != nil {
				return fmt.Errorf("failed to configure BusinessMap instances: %w", err)
			}
			for _, inst := range factory.Instances() {
				logger.Printf("Configured instance %s (%s)", inst.Name, inst.BaseURL)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			shutdown, err := telemetry.Init(ctx, telemetry.Settings{
				Enabled:     cfg.OTelEnabled,
				ServiceName: serviceName,
				Version:     serviceVersion,
				Writer:      logOut,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize telemetry: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Printf("telemetry shutdown: %v", err)
				}
			}()

			instrumentation, err := telemetry.Global()
			if err != nil {
				return fmt.Errorf("failed to create instrumentation: %w", err)
			}

			srv := app.NewServer(factory, logger,
				app.WithReadOnly(cfg.ReadOnly),
				app.WithAnalysisConcurrency(cfg.AnalysisConcurrency),
				app.WithInstrumentation(instrumentation),
			)
			if cfg.ReadOnly {
				logger.Println("Read-only mode: mutating tools are disabled")
			}

			for _, tool := range srv.AvailableTools() {
				logger.Printf("Registered MCP tool %s - %s", tool.Name, tool.Description)
			}

			return start(srv, useHTTP, httpAddr)
		},
	}

	root.Flags().BoolVar(&useHTTP, "http", false, "Expose the MCP server over HTTP instead of stdio")
	root.Flags().StringVar(&httpAddr, "addr", ":8000", "HTTP listen address when using --http")

	return root
}

func instanceConfigs(cfg *config.Config) []businessmap.InstanceConfig {
	instances := make([]businessmap.InstanceConfig, 0, len(cfg.Instances))
	for _, inst := range cfg.Instances {
		instances = append(instances, businessmap.InstanceConfig{
			Name:    inst.Name,
			BaseURL: inst.APIURL,
			Token:   inst.APIToken,
		})
	}
	return instances
}

func burst(rps float64) int {
	if rps < 1 {
		return 1
	}
	return int(rps)
}

func normalizeLegacyFlags(args []string) []string {
	normalized := make([]string, len(args))
	for i, arg := range args {
		switch arg {
		case "-http":
			normalized[i] = "--http"
		case "-addr":
			normalized[i] = "--addr"
		default:
			normalized[i] = arg
		}
	}
	return normalized
}

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	start := func(srv *app.Server, useHTTP bool, addr string) error {
		if useHTTP {
			logger.Printf("Serving MCP over HTTP on %s", addr)
			if err := srv.RunHTTP(addr); err != nil {
				return fmt.Errorf("HTTP server terminated: %w", err)
			}
			return nil
		}

		logger.Println("Serving MCP over stdio")
		if err := srv.RunStdio(); err != nil {
			return fmt.Errorf("STDIO server terminated: %w", err)
		}

		return nil
	}

	if err := run(os.Args, os.Getenv, os.Stderr, start); err != nil {
		logger.Fatal(err)
	}
}
