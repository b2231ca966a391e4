package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/brainwave-viewer/internal/config"
	"github.com/danielpatrickdp/brainwave-viewer/internal/store"
	"github.com/danielpatrickdp/brainwave-viewer/internal/transport"
	"github.com/danielpatrickdp/brainwave-viewer/internal/viewer"
	"github.com/danielpatrickdp/brainwave-viewer/internal/web"
)

// #region main
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	var simulator transport.Simulator
	switch cfg.Transport {
	case "grpc":
		client, err := transport.NewGRPCClient(cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("failed to connect to simulation service at %s: %v", cfg.GRPCAddr, err)
		}
		defer client.Close()
		simulator = client
	default:
		simulator = transport.NewHTTPClient(cfg.APIURL, &http.Client{Timeout: cfg.Timeout})
	}

	svc := viewer.NewService(simulator, st, viewer.Options{
		Transport: cfg.Transport,
		Timeout:   cfg.Timeout,
		Logger:    logger,
	})
	views, err := web.NewServer(svc, web.Config{
		Cadence:   cfg.Cadence,
		AutoStart: cfg.AutoStart,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("failed to build views: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           views.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Printf("viewer listening on %s (backend %s via %s)", cfg.Addr, cfg.APIURL, cfg.Transport)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("viewer: %v", err)
	}
	logger.Println("viewer stopped")
}

// #endregion main
