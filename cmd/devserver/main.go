// cmd/devserver/main.go
//
// Development tournament service – HTTP entry point.
//
// Start-up
// --------
//
//  1. Load configuration (conf/.env → conf/client.yaml → TOURNEY_ env).
//
//  2. Start the daily rotating logger (tees to the console in a TTY).
//
//  3. Seed the in-memory store with a few upcoming tournaments.
//
//  4. Serve the pages and endpoints on devserver.listen_addr and, when
//     set, Prometheus /metrics on devserver.metrics_addr.  Both listeners
//     run under one errgroup and stop together on SIGINT or SIGTERM.
//
// Flags
// -----
//
//	-static DIR   serve client.wasm and wasm_exec.js from DIR so the pages
//	              load the browser client
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/grahamford77/table-tennis/internal/config"
	"github.com/grahamford77/table-tennis/internal/devserver"
	"github.com/grahamford77/table-tennis/internal/logger"
	"github.com/grahamford77/table-tennis/internal/server"
)

func main() {
	staticDir := flag.String("static", "", "directory holding client.wasm and wasm_exec.js")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logOut, err := logger.New(cfg.Paths.Root, cfg.Log.Tee && logger.RunningInTTY(), cfg.Log.Level)
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	store := devserver.NewStore()
	store.Seed(time.Now())

	opts := []devserver.Option{devserver.WithLogger(logOut)}
	if *staticDir != "" {
		opts = append(opts, devserver.WithStaticDir(*staticDir))
	}
	svc, err := devserver.New(store, opts...)
	if err != nil {
		logOut.Fatalw("build service", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, server.New(cfg.DevServer.ListenAddr, svc.Routes()), logOut)
	})
	if cfg.DevServer.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		g.Go(func() error {
			return server.Run(gctx, server.New(cfg.DevServer.MetricsAddr, mux), logOut)
		})
	}

	if err := g.Wait(); err != nil {
		logOut.Fatalw("server stopped", "error", err)
	}
	logOut.Infow("bye")
}
