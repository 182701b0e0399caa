// Package main provides the litkg binary entry point.
// Litkg builds a CIDOC CRM / LRMoo knowledge graph from the
// bibliographic spreadsheet database and its auxiliary vocabularies.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/spf13/cobra"

	"github.com/litkg/litkg/config"
	"github.com/litkg/litkg/pipeline"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "litkg"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		publish    bool
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Bibliographic knowledge graph builder",
		Long: `Litkg turns the bibliographic spreadsheet database into a
CIDOC CRM / LRMoo knowledge graph.

It normalizes the irregular sheet rows, resolves them against the
controlled type, language and place vocabularies, assembles typed
entities with stable identifiers, infers works for underived
expressions, and writes the graph as Turtle or N-Triples together
with a curation report of unresolved places.`,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the knowledge graph from the source workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(configPath, logLevel, publish)
		},
	}
	buildCmd.Flags().BoolVar(&publish, "publish", false, "Also publish built entities to the NATS ingest stream")
	cmd.AddCommand(buildCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "enrich",
		Short: "Append reconciled wikidata identities to an existing graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger(logLevel)
			loader := config.NewLoader(logger)
			var cfg *config.Config
			var err error
			if configPath != "" {
				cfg, err = loader.LoadPath(configPath)
			} else {
				cfg, err = loader.Load()
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return pipeline.New(cfg, logger).EnrichGraph()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default user configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger(logLevel)
			loader := config.NewLoader(logger)
			return loader.EnsureUserConfig()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func setupLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func runBuild(configPath, logLevel string, publish bool) error {
	logger := setupLogger(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(logger)
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = loader.LoadPath(configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var opts []pipeline.Option
	if publish {
		nc, err := connectToNATS(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer nc.Close(ctx)
		opts = append(opts, pipeline.WithNATS(nc))
	}

	p := pipeline.New(cfg, logger, opts...)
	if err := p.Run(ctx); err != nil {
		return err
	}

	logger.Info("Build complete", slog.String("graph", cfg.Output.GraphPath))
	return nil
}

func connectToNATS(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*natsclient.Client, error) {
	natsURL := "nats://localhost:4222"
	if envURL := os.Getenv("LITKG_NATS_URL"); envURL != "" {
		natsURL = envURL
	} else if cfg.NATS.URL != "" {
		natsURL = cfg.NATS.URL
	}

	logger.Info("Connecting to NATS", "url", natsURL)

	client, err := natsclient.NewClient(natsURL,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", natsURL, err)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", natsURL, err)
	}

	logger.Info("Connected to NATS", "url", natsURL)
	return client, nil
}
