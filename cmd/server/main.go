package main

import (
	"context"
	"database/sql"
	"fmt"
	"freight-fulfillment-service/internal/adapters/lock"
	"freight-fulfillment-service/internal/adapters/repositories"
	"freight-fulfillment-service/internal/adapters/session"
	"freight-fulfillment-service/internal/api"
	"freight-fulfillment-service/internal/config"
	"freight-fulfillment-service/internal/platform/db"
	"freight-fulfillment-service/internal/ports"
	"freight-fulfillment-service/internal/services"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or SQLite, Redis or in-process locks) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()
	ctx := context.Background()

	conn, store, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed demo data on first start.
	if err := initAndSeed(ctx, conn, store, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	resolver, err := services.NewRouteResolver(ctx, store)
	if err != nil {
		log.Fatal(err)
	}

	locker, closeLocker, err := newLocker(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLocker()

	ledger := services.NewCapacityLedger(store)
	controller := services.NewAllocationController(
		ledger,
		store,
		resolver,
		session.NewCacheSessionStore(cfg.SessionTTL),
		locker,
		log.Default(),
	)

	router := api.NewRouter(api.Deps{
		Resolver:       resolver,
		Ledger:         ledger,
		Controller:     controller,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openStore prefers Postgres when DATABASE_URL is set and falls back to a local SQLite file.
func openStore(cfg config.Config) (*sql.DB, *repositories.SQLStore, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return conn, repositories.NewPostgresStore(conn), nil
	}

	conn, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return conn, repositories.NewSqliteStore(conn), nil
}

func initAndSeed(ctx context.Context, conn *sql.DB, store *repositories.SQLStore, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn, store.Dialect()); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := repositories.SeedFromJSON(ctx, store, seedPath, false); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// newLocker uses Redis when REDIS_URL is set so several instances can share order locks.
func newLocker(ctx context.Context, cfg config.Config) (ports.OrderLocker, func(), error) {
	if cfg.RedisURL == "" {
		return lock.NewLocalOrderLocker(cfg.LockWait), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("new locker: parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("new locker: ping redis: %w", err)
	}

	locker, err := lock.NewRedisOrderLocker(client, cfg.LockTTL, cfg.LockWait)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return locker, func() { _ = client.Close() }, nil
}
