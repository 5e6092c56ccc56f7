// Command sitegauge runs the URL scan API server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mverbeek/sitegauge/internal/config"
	"github.com/mverbeek/sitegauge/internal/logging"
	"github.com/mverbeek/sitegauge/internal/server"
)

func main() {
	var (
		addrFlag   = flag.String("addr", "", "listen address, overrides config")
		configFlag = flag.String("config", "", "path to YAML config file")
	)
	flag.Parse()

	logger := logging.NewStdoutLogger("sitegauge")

	cfg, err := config.Load(*configFlag)
	if err != nil {
		logger.Error("loading configuration", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	if *addrFlag != "" {
		cfg.ListenAddr = *addrFlag
	}

	srv := server.New(cfg, logger, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded cache growth for long-lived processes; request semantics are
	// unaffected.
	go srv.Scanner().Cache().RunSweeper(ctx, cfg.CacheSweepInterval.Std())

	httpSrv := srv.HTTPServer()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", logging.Field{Key: "addr", Value: cfg.ListenAddr})
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown incomplete", logging.Field{Key: "error", Value: err.Error()})
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", logging.Field{Key: "error", Value: err.Error()})
			os.Exit(1)
		}
	}
}
