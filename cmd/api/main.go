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

	"github.com/joho/godotenv"

	"github.com/civicnav/navigator/internal/client"
	"github.com/civicnav/navigator/internal/config"
	"github.com/civicnav/navigator/internal/handler"
	"github.com/civicnav/navigator/internal/service/assistant"
	sessionsvc "github.com/civicnav/navigator/internal/service/session"
	"github.com/civicnav/navigator/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var storage store.Storage
	if cfg.Session.StatePath != "" {
		fileStore, err := store.NewFileStore(cfg.Session.StatePath)
		if err != nil {
			log.Fatalf("failed to open state file %s: %v", cfg.Session.StatePath, err)
		}
		storage = fileStore
		log.Printf("session state persisted to %s", cfg.Session.StatePath)
	} else {
		storage = store.NewMemoryStore()
		log.Println("CIVIC_STATE_FILE not set, session state is in-memory only")
	}

	backend := client.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout)
	session := sessionsvc.NewService(storage)
	engine := assistant.NewService(session, backend, backend, cfg.Backend.Role)

	router := handler.NewRouter(engine)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("CivicNavigator assistant listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
