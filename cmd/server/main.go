// txfirewall - fraud-screening facade for the UnhackableWallet frontend
package main

import (
	"context"
	"os"

	"github.com/unhackablewallet/txfirewall/internal/config"
	"github.com/unhackablewallet/txfirewall/internal/logging"
	"github.com/unhackablewallet/txfirewall/internal/server"
	"github.com/unhackablewallet/txfirewall/internal/traces"
)

// Build info - set by ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	logger := logging.New("info", "text")

	logger.Info("starting txfirewall",
		"version", Version,
		"commit", Commit,
		"build_time", BuildTime,
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"env", cfg.Env,
		"scorer", cfg.MLAPIURL,
		"timeout_tiers", cfg.MLTimeouts,
		"feature_slots", []int{cfg.FeatureValueSlot, cfg.FeatureGasSlot},
	)

	ctx := context.Background()

	shutdownTraces, err := traces.Init(ctx, cfg.OTLPEndpoint, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTraces(context.Background()) }()

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
