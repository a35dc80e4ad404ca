package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/yndnr/filedrop/internal/core/service"
	"github.com/yndnr/filedrop/internal/infra/buildinfo"
	"github.com/yndnr/filedrop/internal/infra/confloader"
	"github.com/yndnr/filedrop/internal/infra/shutdown"
	"github.com/yndnr/filedrop/internal/server/config"
	"github.com/yndnr/filedrop/internal/server/httpserver"
	"github.com/yndnr/filedrop/internal/storage/memory"
	"github.com/yndnr/filedrop/internal/telemetry/logger"
	"github.com/yndnr/filedrop/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "Listen address (overrides server.http.addr)")
		logLevel    = flag.String("log-level", "", "Log level (overrides log.level)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("filedrop-server " + buildinfo.String())
		return nil
	}

	overrides := flagOverrides(*addr, *logLevel)

	cfg, err := config.Load(*configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting filedrop-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile,
	)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	store := memory.New(memory.WithLimits(cfg.Store.MaxFileSize, cfg.Store.MaxTotalMemory))
	if limits := store.Limits(); limits.MaxFileSize > limits.MaxTotalMemory {
		log.Warn("max_file_size exceeds max_total_memory; uploads above total capacity will be rejected",
			"max_file_size", limits.MaxFileSize,
			"max_total_memory", limits.MaxTotalMemory,
		)
	}

	var metrics *metric.Registry
	if cfg.Metrics.Enabled {
		metrics = metric.NewRegistry()
		if err := metrics.Register(metric.NewStoreCollector(store)); err != nil {
			return fmt.Errorf("register store metrics: %w", err)
		}
	}

	files := service.NewFileService(store, log, metrics)
	reaper := service.NewReaper(store,
		service.WithReaperLogger(log),
		service.WithReaperMetrics(metrics),
	)

	var ready atomic.Bool
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Files:              files,
		Metrics:            metrics,
		Logger:             log,
		PublicURL:          cfg.Server.PublicURL,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RateLimit:          cfg.Server.RateLimit,
		RateBurst:          cfg.Server.RateBurst,
		MaxFileSize:        cfg.Store.MaxFileSize,
		Ready:              ready.Load,
		TrustProxyHeaders:  cfg.Server.TrustProxyHeaders,
	})

	httpServer, err := httpserver.New(cfg.Server.HTTP, router, log)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)

	// Hooks run in reverse order of registration.
	shutdownHandler.OnShutdown("http", httpServer.Shutdown)
	shutdownHandler.OnShutdown("reaper", func(context.Context) error {
		reaper.Stop()
		return nil
	})

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, overrides, cfg, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	shutdownHandler.OnShutdown("readiness", func(context.Context) error {
		ready.Store(false)
		return nil
	})

	reaper.Start(context.Background())

	var serveErr atomic.Value
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
			serveErr.Store(err)
			shutdownHandler.Trigger("http server failed")
		}
	}()

	ready.Store(true)
	log.Info("server started",
		"addr", cfg.Server.HTTP.Addr,
		"max_file_size", cfg.Store.MaxFileSize,
		"max_total_memory", cfg.Store.MaxTotalMemory,
		"reap_interval", reaper.Interval().String(),
	)

	if err := shutdownHandler.Wait(context.Background()); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}
	if err, ok := serveErr.Load().(error); ok {
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// flagOverrides maps explicitly set flags onto configuration keys.
func flagOverrides(addr, logLevel string) map[string]any {
	overrides := make(map[string]any)
	if addr != "" {
		overrides["server.http.addr"] = addr
	}
	if logLevel != "" {
		overrides["log.level"] = logLevel
	}
	return overrides
}

// watchConfig reloads the configuration file on change and applies the
// settings that can change at runtime. Everything else is logged as
// needing a restart.
func watchConfig(path string, overrides map[string]any, current *config.ServerConfig, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		next, err := config.Load(path, overrides)
		if err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}

		if next.Log.Level != current.Log.Level {
			if err := logger.SetLevel(next.Log.Level); err != nil {
				log.Warn("log level not applied", "level", next.Log.Level, "error", err)
			} else {
				log.Info("log level changed", "from", current.Log.Level, "to", next.Log.Level)
				current.Log.Level = next.Log.Level
			}
		}

		if next.Store != current.Store || next.Server.HTTP != current.Server.HTTP {
			log.Warn("store and listener settings changed; restart required to apply")
		}
	})
	w.StartAsync()
	return w, nil
}
