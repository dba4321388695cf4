// Command trends-mcp serves Google Trends data over the Model Context
// Protocol on stdio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goflags "github.com/jessevdk/go-flags"

	"github.com/damionrashford/google-trends/pkg/config"
	"github.com/damionrashford/google-trends/pkg/logging"
	"github.com/damionrashford/google-trends/pkg/server"
	"github.com/damionrashford/google-trends/pkg/trends/google"
)

const version = "1.0.0"

type options struct {
	Config  string `short:"c" long:"config" description:"Path to YAML configuration file"`
	Debug   bool   `short:"d" long:"debug" description:"Enable debug logging"`
	Version bool   `short:"v" long:"version" description:"Print version and exit"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trends-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	parser := goflags.NewParser(&opts, goflags.Default)
	parser.Name = "trends-mcp"
	parser.LongDescription = "MCP server for Google Trends search interest data."

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	if opts.Version {
		fmt.Printf("trends-mcp %s\n", version)
		return nil
	}

	cfg, err := config.LoadFile(opts.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if opts.Debug {
		level = logging.DEBUG
	}
	zapOpts := []logging.ZapOption{logging.WithLogLevel(level)}
	if cfg.Log.Development {
		zapOpts = append(zapOpts, logging.WithDevelopmentMode())
	}
	logger := logging.NewZapLogger(zapOpts...)

	clientOpts := google.NewOptions()
	clientOpts.Logger = logger
	if cfg.Upstream.BaseURL != "" {
		clientOpts.BaseURL = cfg.Upstream.BaseURL
	}
	if cfg.Upstream.Locale != "" {
		clientOpts.Locale = cfg.Upstream.Locale
	}
	if cfg.Upstream.TimezoneOffset != 0 {
		clientOpts.TimezoneOffset = cfg.Upstream.TimezoneOffset
	}
	if cfg.Upstream.HTTPTimeout > 0 {
		clientOpts.HTTPTimeout = cfg.Upstream.HTTPTimeout.Std()
	}
	if cfg.Rate.RequestInterval > 0 {
		clientOpts.RequestInterval = cfg.Rate.RequestInterval.Std()
	}
	if cfg.Rate.MaxAttempts > 0 {
		clientOpts.MaxAttempts = cfg.Rate.MaxAttempts
	}
	if cfg.Rate.BaseDelay > 0 {
		clientOpts.BaseDelay = cfg.Rate.BaseDelay.Std()
	}
	if cfg.Rate.MaxDelay > 0 {
		clientOpts.MaxDelay = cfg.Rate.MaxDelay.Std()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Provider:  google.NewClient(clientOpts),
		Logger:    logger,
		ExportDir: cfg.Export.Dir,
		DBDir:     cfg.Export.DBDir,
	})

	logger.Info("starting trends-mcp",
		logging.String("version", version),
		logging.String("level", level.String()),
	)
	return srv.Run(ctx)
}
