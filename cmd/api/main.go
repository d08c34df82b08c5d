// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/ladiesmans217/unalone/internal/adapter/cache"
	"github.com/ladiesmans217/unalone/internal/adapter/storage"
	"github.com/ladiesmans217/unalone/internal/config"
	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
	"github.com/ladiesmans217/unalone/internal/server"
	geoService "github.com/ladiesmans217/unalone/internal/service/geo"
	hotspotService "github.com/ladiesmans217/unalone/internal/service/hotspot"
)

func main() {
	// Load .env when present; environment variables win
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize the record store. Postgres when reachable, otherwise
	// an in-process store so the service still comes up in development.
	var store hotspot.Store
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Printf("Database unavailable (%v), using in-memory store", err)
		store = storage.NewMemoryStore()
	} else {
		defer db.Close()
		store = storage.NewHotspotStore(db)
	}

	// Initialize the cache tier. Degrades to disabled on unreachability.
	geoCache := cache.New(ctx, cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})
	defer geoCache.Close()

	// Initialize NATS; hotspot events are skipped when unavailable.
	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		log.Printf("NATS unavailable (%v), hotspot events disabled", err)
	} else {
		defer natsConn.Close()
	}

	// Initialize services
	manager := hotspotService.NewManager(store, geoCache, natsConn, hotspotService.ManagerConfig{
		EventsTopic: cfg.Hotspot.EventsTopic,
	})

	searchService := geoService.NewSearchService(store, geoCache, geoService.SearchConfig{
		DefaultRadiusKm: cfg.Geo.DefaultRadiusKm,
		DefaultZoom:     cfg.Geo.DefaultZoom,
		DefaultLimit:    cfg.Geo.DefaultLimit,
		MaxLimit:        cfg.Geo.MaxLimit,
		MaxCandidates:   cfg.Geo.MaxCandidates,
		RegionTTL:       cfg.Geo.RegionTTL,
		ClusterTTL:      cfg.Geo.ClusterTTL,
		AutoDistanceMax: cfg.Geo.AutoDistanceMax,
		AutoGridMax:     cfg.Geo.AutoGridMax,
	})

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		natsConn,
		cfg.Hotspot.EventsTopic,
		manager,
		searchService,
	)

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
