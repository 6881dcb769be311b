package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"tailscale.com/tsnet"

	"github.com/momentumx/momentumx/internal/auth"
	"github.com/momentumx/momentumx/internal/config"
	"github.com/momentumx/momentumx/internal/gemini"
	"github.com/momentumx/momentumx/internal/mcp"
	"github.com/momentumx/momentumx/internal/server"
	"github.com/momentumx/momentumx/internal/storage"
	"github.com/momentumx/momentumx/internal/streak"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	migrationsDir := flag.String("migrations", "migrations", "path to migration files")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("MomentumX starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, *migrationsDir); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	srv := server.New(db, issuer, cfg.Server.CORSOrigin, log)

	gc := gemini.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	srv.SetGenerator(func(key string) server.Generator {
		if key == "" {
			return gc
		}
		return gc.WithAPIKey(key)
	})
	if cfg.Gemini.APIKey == "" {
		log.Warn("no server Gemini key configured; generation needs a per-user key")
	}
	log.Info("generator ready", "model", gc.Model())

	mcpSrv := mcp.New(db, Version, log)
	srv.SetMCP(mcp.NewHTTPHandler(mcpSrv, server.UserIDFromContext))

	if cfg.Server.StaticDir != "" {
		srv.SetFrontend(os.DirFS(cfg.Server.StaticDir))
		log.Info("serving frontend", "dir", cfg.Server.StaticDir)
	}

	jobs := cron.New()
	if err := streak.Schedule(jobs, cfg.Jobs.StreakResetSpec, db, log); err != nil {
		log.Error("scheduling streak reset failed", "spec", cfg.Jobs.StreakResetSpec, "error", err)
		os.Exit(1)
	}
	jobs.Start()
	defer jobs.Stop()
	log.Info("streak reset scheduled", "spec", cfg.Jobs.StreakResetSpec)

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := cfg.Server.Addr()
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
