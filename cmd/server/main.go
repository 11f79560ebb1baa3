package main

import (
	"context"
	"errors"
	"fuel-route-service/internal/adapters/cache"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/api"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/ports"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or PostGIS, ORS, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := repositories.OpenStore(ctx, cfg.StoreDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if n, err := store.Count(ctx); err != nil {
		log.Fatal(err)
	} else if n == 0 {
		log.Printf("fuel stop catalog is empty driver=%s (run dbtool import)", cfg.StoreDriver)
	} else {
		log.Printf("fuel stop catalog loaded driver=%s stops=%d", cfg.StoreDriver, n)
	}

	ors, err := routing.NewORSClient(cfg.ORSKey, routing.WithProfile(cfg.ORSProfile))
	if err != nil {
		log.Fatal(err)
	}

	var provider ports.RouteProvider = ors
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unreachable, route cache disabled: %v", err)
		} else {
			// Repeated trips reuse the provider response instead of a new ORS call.
			provider = routing.NewCachedRouteProvider(ors, cache.NewRedisRouteCache(rdb, cfg.RouteCacheTTL), cfg.ORSProfile)
			log.Printf("route cache enabled ttl=%s", cfg.RouteCacheTTL)
		}
	}

	router := api.NewRouter(provider, store, cfg.Vehicle)

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening addr=:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Println("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
