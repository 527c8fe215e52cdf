package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/amson/internal/config"
	"github.com/meltforce/amson/internal/docstore"
	"github.com/meltforce/amson/internal/ledger"
	"github.com/meltforce/amson/internal/live"
	"github.com/meltforce/amson/internal/mcp"
	"github.com/meltforce/amson/internal/plan"
	"github.com/meltforce/amson/internal/resolver"
	"github.com/meltforce/amson/internal/server"
	"github.com/meltforce/amson/internal/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Amson engine starting", "version", Version)

	cfg, err := config.LoadEngine(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open local documents
	docs, err := docstore.Open(cfg.Data.Dir)
	if err != nil {
		log.Error("failed to open document store", "error", err)
		os.Exit(1)
	}
	defer docs.Close()

	plans, err := plan.NewStore(docs, log)
	if err != nil {
		log.Error("failed to load plan", "error", err)
		os.Exit(1)
	}

	lg, err := ledger.New(docs, log)
	if err != nil {
		log.Error("failed to load ledger", "error", err)
		os.Exit(1)
	}

	// Live status mirror, only when a sink is configured
	var notifier session.Notifier
	if cfg.Live.SinkURL != "" {
		mirror := live.NewMirror(live.NewHTTPSink(cfg.Live.SinkURL), log)
		defer mirror.Close()
		notifier = mirror
		log.Info("live status mirroring enabled", "sink", cfg.Live.SinkURL)
	}

	tracker, err := session.New(docs, lg, notifier, log)
	if err != nil {
		log.Error("failed to load session cursor", "error", err)
		os.Exit(1)
	}
	tracker.ResetIfNewDay()

	// Pack resolution, only when a hub is configured
	var res *resolver.Resolver
	if cfg.Hub.URL != "" {
		res = resolver.New(resolver.NewClient(cfg.Hub.URL), log)
		log.Info("pack resolution enabled", "hub", cfg.Hub.URL)
	}

	srv := server.New(plans, lg, tracker, res, cfg.User.ID, log)
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcp.New(srv, Version, log)))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("listen failed", "addr", addr, "error", err)
		os.Exit(1)
	}
	log.Info("engine listening", "addr", addr, "user", cfg.User.ID)

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("engine stopped")
}
