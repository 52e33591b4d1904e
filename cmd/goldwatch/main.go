package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/BBJcaptain/keju2/pkg/config"
	"github.com/BBJcaptain/keju2/pkg/logging"
	"github.com/BBJcaptain/keju2/pkg/metrics"
	"github.com/BBJcaptain/keju2/pkg/pipeline"
	"github.com/BBJcaptain/keju2/pkg/reconcile"
	"github.com/BBJcaptain/keju2/pkg/snapshot"
	"github.com/BBJcaptain/keju2/pkg/sources"
	"github.com/BBJcaptain/keju2/pkg/version"

	// Import sources to register them
	_ "github.com/BBJcaptain/keju2/pkg/sources/forex"
	_ "github.com/BBJcaptain/keju2/pkg/sources/spot"
	_ "github.com/BBJcaptain/keju2/pkg/sources/vendor"
)

var (
	configFile = flag.String("config", "config/config.yaml", "Path to configuration file")
	outputFile = flag.String("output", "", "Snapshot output path (overrides config)")
	showVer    = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version.String())
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Override output path from command line
	if *outputFile != "" {
		cfg.Output = *outputFile
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)

	logger.Info("Starting goldwatch", "version", version.Version, "output", cfg.Output)

	// Initialize metrics
	if cfg.Metrics.Enabled {
		metrics.Init()
	}

	// Build sources from configuration
	srcs, err := buildSources(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create sources", "error", err.Error())
	}

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	policy := reconcile.Policy{
		FilterMinSources:   cfg.Reconcile.FilterMinSources,
		ValidateMinSources: cfg.Reconcile.ValidateMinSources,
		Tolerance:          decimal.NewFromFloat(cfg.Reconcile.TolerancePct / 100),
	}
	reconciler := reconcile.NewReconciler(policy, logger)

	p := pipeline.New(srcs, reconciler, logger)
	snap := p.Run(ctx)

	if err := snapshot.Write(cfg.Output, snap); err != nil {
		logger.Fatal("Failed to write snapshot", "path", cfg.Output, "error", err.Error())
	}
	logger.Info("Snapshot written", "path", cfg.Output)

	critical := snap.CriticalFailure()
	if cfg.Metrics.Enabled {
		metrics.RecordRun(!critical)
		if err := metrics.Push(cfg.Metrics.Gateway, cfg.Metrics.Job); err != nil {
			logger.Warn("Failed to push metrics", "gateway", cfg.Metrics.Gateway, "error", err.Error())
		}
	}

	if critical {
		logger.Error("Run finished with missing critical data")
		os.Exit(1)
	}
}

// buildSources instantiates every enabled source through the registry,
// ordered by priority (lower first) with config order breaking ties.
func buildSources(cfg *config.Config, logger *logging.Logger) ([]sources.Source, error) {
	ordered := make([]config.SourceConfig, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		if !sc.Enabled {
			logger.Debug("Source disabled", "type", sc.Type, "name", sc.Name)
			continue
		}
		ordered = append(ordered, sc)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	srcs := make([]sources.Source, 0, len(ordered))
	for _, sc := range ordered {
		conf := map[string]interface{}{"logger": logger}
		for k, v := range sc.Config {
			conf[k] = v
		}
		src, err := sources.Create(strings.ToLower(sc.Type), strings.ToLower(sc.Name), conf)
		if err != nil {
			return nil, fmt.Errorf("source %s.%s: %w", sc.Type, sc.Name, err)
		}
		srcs = append(srcs, src)
	}
	if len(srcs) == 0 {
		return nil, config.ErrNoSourcesEnabled
	}
	return srcs, nil
}
