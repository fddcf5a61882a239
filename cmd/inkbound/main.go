package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/inkbound/inkbound/internal/cache"
	"github.com/inkbound/inkbound/internal/catalog/comix"
	"github.com/inkbound/inkbound/internal/config"
	"github.com/inkbound/inkbound/internal/log"
	"github.com/inkbound/inkbound/internal/search"
	"github.com/inkbound/inkbound/internal/server"
	"github.com/inkbound/inkbound/internal/store"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("inkbound %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.Setup(&cfg.Logging)
	if err != nil {
		logger = log.Null()
	}
	slog.SetDefault(logger)

	logger.Info("starting inkbound", "version", Version, "listen", cfg.Server.Listen)

	st, err := store.New(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}
	defer st.Close()

	var responseCache *cache.Cache
	if cfg.Cache.Enabled {
		responseCache = cache.New()
	}

	catalog := comix.NewClient(cfg.Upstream.BaseURL, responseCache, logger)
	searchSvc := search.NewService(st, logger)

	handler := server.NewHandler(catalog, st, searchSvc, responseCache, logger, cfg.Reader.DefaultLanguage)
	engine := server.NewServer(handler)

	return engine.Run(cfg.Server.Listen)
}
