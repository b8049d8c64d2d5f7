package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"critpath/internal/config"
	"critpath/internal/shared/observability"
)

var (
	configPath   = flag.String("config", "./critpath.toml", "Path to config file")
	snapshotPath = flag.String("snapshot", "", "Path to task snapshot file (overrides config)")
	once         = flag.Bool("once", false, "Run single analysis and exit")
	watch        = flag.Bool("watch", false, "Re-run analysis when the snapshot changes")
	check        = flag.String("check", "", "Validate a proposed edge: from:to[:kind]")
	exportFormat = flag.String("export", "", "Print the graph in a format: mermaid, dot or json")
	trends       = flag.Duration("trends", 0, "Print trend report over the given window, e.g. 168h")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	version      = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("critpath v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./critpath.toml" {
			if fallback, fbErr := config.Load("./critpath.example.toml"); fbErr == nil {
				cfg, err = fallback, nil
			} else {
				cfg, err = config.Default(), nil
			}
		}
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if *snapshotPath != "" {
		cfg.SnapshotPath = *snapshotPath
	} else if flag.NArg() > 0 {
		cfg.SnapshotPath = flag.Arg(0)
	}
	if cfg.SnapshotPath == "" && *trends == 0 {
		fmt.Fprintln(os.Stderr, "no snapshot file given; use -snapshot or set snapshot_path in the config")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// run owns everything that needs deferred cleanup; main exits after it
// returns so the defers actually fire.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	app, err := NewApp(cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer app.Close()

	switch {
	case *trends != 0:
		return app.PrintTrends(ctx, *trends)
	case *check != "":
		return app.CheckEdge(ctx, *check)
	case *exportFormat != "":
		return app.PrintExport(ctx, *exportFormat)
	case *watch && !*once:
		return app.RunWatch(ctx)
	default:
		return app.RunOnce(ctx)
	}
}
