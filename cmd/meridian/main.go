package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/meridian-live/meridian/internal/config"
	"github.com/meridian-live/meridian/internal/event"
	"github.com/meridian-live/meridian/internal/history"
	"github.com/meridian-live/meridian/internal/server"
	"github.com/meridian-live/meridian/internal/store"
	"github.com/meridian-live/meridian/internal/version"
	"github.com/meridian-live/meridian/internal/webui"
	"github.com/meridian-live/meridian/internal/worldmap"
	"github.com/meridian-live/meridian/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration (before logger, so log level/format can be configured).
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger from configuration.
	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Meridian server starting", zap.String("version", version.Short()))

	if f := cfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Warn("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}

	// Open database and run migrations.
	dbPath := cfg.GetString("database.path")
	db, err := store.New(dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.CheckVersion(ctx, version.Short()); err != nil {
		logger.Fatal("schema version check failed", zap.Error(err))
	}
	if err := db.Migrate(ctx, "history", history.Migrations()); err != nil {
		logger.Fatal("failed to run history migrations", zap.Error(err))
	}
	logger.Info("database initialized",
		zap.String("component", "database"),
		zap.String("path", dbPath),
	)

	// Shared services.
	bus := event.NewBus(logger.Named("event"))

	historyStore := history.NewStore(db)
	recorder := history.NewRecorder(bus, historyStore, logger.Named("history"))
	defer recorder.Close()

	// WebSocket handler first: its hub's presence count is the widget's
	// visibility signal.
	wsHandler := ws.NewHandler(bus, logger.Named("ws"))
	presence := worldmap.NewPresenceSignal()
	wsHandler.Hub().SetPresenceListener(presence.HandlePresence)

	target, err := worldmap.ParseTarget(cfg.GetString("map.target"))
	if err != nil {
		logger.Fatal("invalid map.target", zap.Error(err))
	}

	controller, err := worldmap.NewController(worldmap.Options{
		InitialTimezone:   cfg.GetString("map.initial_timezone"),
		Target:            &target,
		UpdateInterval:    cfg.GetDuration("map.update_interval"),
		CelebrationWindow: cfg.GetDuration("map.celebration_window"),
		Visibility:        presence,
		Bus:               bus,
		Logger:            logger.Named("worldmap"),
	})
	if err != nil {
		logger.Fatal("failed to start map controller", zap.Error(err))
	}
	wsHandler.SetController(controller)

	mapHandler := worldmap.NewHandler(controller, logger.Named("worldmap"))
	historyHandler := history.NewHandler(historyStore, logger.Named("history"))

	// HTTP server.
	addr := cfg.GetString("server.host") + ":" + cfg.GetString("server.port")
	if addr == ":" {
		addr = "0.0.0.0:8080"
	}
	readyCheck := server.ReadinessChecker(func(ctx context.Context) error {
		return db.DB().PingContext(ctx)
	})
	srv := server.New(addr, logger, readyCheck, webui.Handler(),
		mapHandler, historyHandler, wsHandler)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("Meridian server ready", zap.String("addr", addr))

	port := cfg.GetString("server.port")
	fmt.Fprintf(os.Stderr, "\n  Meridian %s is ready!\n  Open http://localhost:%s in your browser.\n\n", version.Short(), port)

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	controller.Destroy()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("Meridian server stopped")
}
