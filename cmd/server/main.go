package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/config"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/router"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/session"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/workspace"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sweepInterval = time.Minute

// expiringCache is a session cache that can drop stale entries.
type expiringCache interface {
	session.Cache
	DeleteExpired(ctx context.Context) (int, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache expiringCache
	if cfg.DatabaseURL != "" {
		if err := session.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to migrate session schema: %v", err)
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("Unable to ping database: %v", err)
		}
		log.Println("Connected to database, sessions are shared")
		cache = session.NewPostgresCache(pool, session.NewSealer(cfg.SessionSecret), cfg.SessionTTL)
	} else {
		log.Println("No DATABASE_URL, sessions are kept in memory")
		cache = session.NewMemoryCache(cfg.SessionTTL)
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	registry := workspace.NewRegistry(cfg.BackendURL, cache, hub, &http.Client{})
	go housekeeping(ctx, cache, registry, cfg.KitchenPollInterval)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router.New(cfg, registry, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("ERROR: shutdown: %v", err)
		}
	}()

	log.Printf("Starting server on :%s (backend %s)", cfg.Port, cfg.BackendURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// housekeeping drops expired sessions and their workspaces, and periodically tells
// kitchen screens to reload so orders placed from other clients show up.
func housekeeping(ctx context.Context, cache expiringCache, registry *workspace.Registry, kitchenEvery time.Duration) {
	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()

	var kitchen <-chan time.Time
	if kitchenEvery > 0 {
		t := time.NewTicker(kitchenEvery)
		defer t.Stop()
		kitchen = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweep.C:
			n, err := cache.DeleteExpired(ctx)
			if err != nil {
				log.Printf("ERROR: delete expired sessions: %v", err)
			}
			if closed := registry.Sweep(ctx); n > 0 || closed > 0 {
				log.Printf("Expired %d sessions, closed %d workspaces", n, closed)
			}
		case <-kitchen:
			registry.KitchenChanged(ctx)
		}
	}
}
