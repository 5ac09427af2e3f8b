package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"job-tracker/internal/app"
	"job-tracker/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] config failed err=%v", err)
	}

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatalf("[Server] invalid HTTP port err=%v", err)
	}

	srv, cleanup, err := app.Bootstrap(cfg)
	if err != nil {
		log.Fatalf("[Server] bootstrap failed err=%v", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("[Server] cleanup failed err=%v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] listening addr=%s env=%s blobs=%s", addr, cfg.App.Environment, cfg.Blob.Backend)
		errCh <- srv.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("[Server] stopped err=%v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("[Server] shutdown failed err=%v", err)
		}
	}
}
