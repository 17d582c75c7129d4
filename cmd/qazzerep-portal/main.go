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

	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/config"
	"github.com/existflow/qazzerep/internal/i18n"
	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/server"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	if err := logger.Init(logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Output: os.Stdout,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	lang, err := i18n.ParseLang(cfg.Language)
	if err != nil {
		log.Printf("Unknown language %q, using %s", cfg.Language, i18n.Fallback)
	}
	catalog, err := i18n.Load(lang)
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	// The portal is anonymous; no token store
	client := api.NewClient(cfg.APIURL, nil, api.WithTimeout(cfg.Timeout()))

	srv, err := server.New(client, catalog, cfg.PublicURL)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("QazZerep portal starting on :%s (backend %s)", port, cfg.APIURL)
		if err := srv.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
}
