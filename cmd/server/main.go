package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/smartpark/parking-portal/internal/config"
	"github.com/smartpark/parking-portal/internal/kvstore"
	"github.com/smartpark/parking-portal/internal/kvstore/postgres"
	"github.com/smartpark/parking-portal/internal/kvstore/sqlite"
	"github.com/smartpark/parking-portal/internal/parking"
	"github.com/smartpark/parking-portal/internal/server"
	"github.com/smartpark/parking-portal/internal/session"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	kv, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}
	defer kv.Close()

	sessions := session.New(kv, cfg.SessionTTL)
	if err := sessions.Resolve(ctx); err != nil {
		log.Fatalf("resolve session state: %v", err)
	}
	log.Printf("session state resolved: %s", sessions.State())

	api := parking.NewClient(cfg.ParkingAPIURL, 15*time.Second)
	srv := server.New(cfg, sessions, api)

	go func() {
		log.Printf("parking portal listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (kvstore.Store, error) {
	if cfg.DatabaseURL != "" {
		return postgres.Open(ctx, cfg.DatabaseURL)
	}
	return sqlite.Open(ctx, cfg.StorePath)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
