package main

import (
	"context"
	"flag"
	"fmt"
	"fuel-route-service/internal/adapters/cache"
	"fuel-route-service/internal/adapters/geocoding"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/catalog"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/ports"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	input := flag.String("input", "data/fuel-prices-for-be-assessment.csv", "OPIS price CSV")
	output := flag.String("output", "data/fuelstops_address_geocoded.csv", "geocoded CSV to write")
	cacheDB := flag.String("cache-db", config.Get("GEOCODE_CACHE_DB", "data/geocode_cache.db"), "SQLite geocode cache (ignored when DATABASE_URL is set)")
	provider := flag.String("geocoder", config.Get("GEOCODER", "nominatim"), "geocoder to use: nominatim or ors")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *input, *output, *cacheDB, *provider); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, input, output, cacheDB, provider string) error {
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("geocode: open input %q: %w", input, err)
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("geocode: create output %q: %w", output, err)
	}
	defer out.Close()

	geocodeCache, closeCache, err := openCache(ctx, cacheDB)
	if err != nil {
		return err
	}
	defer closeCache()

	var geocoder ports.Geocoder
	switch strings.ToLower(provider) {
	case "nominatim":
		g := geocoding.NewNominatimGeocoder(
			geocoding.WithUserAgent(config.Get("NOMINATIM_USER_AGENT", "fuel-route-service/1.0")),
		)
		defer g.Stop()
		geocoder = g
	case "ors":
		key := strings.TrimSpace(os.Getenv("ORS_API_KEY"))
		if key == "" {
			return fmt.Errorf("geocode: ORS_API_KEY is required for -geocoder=ors")
		}
		g, err := routing.NewORSClient(key)
		if err != nil {
			return err
		}
		geocoder = g
	default:
		return fmt.Errorf("geocode: unknown geocoder %q", provider)
	}

	stats, err := catalog.GeocodeCSV(ctx, in, out, geocodeCache, geocoder)
	if err != nil {
		return err
	}

	log.Printf("Geocoding complete. Output saved to: %s (written=%d failed=%d)", output, stats.Written, stats.Failed)
	return out.Close()
}

// openCache uses the Postgres geocode_cache table when DATABASE_URL is set,
// otherwise a local SQLite file.
func openCache(ctx context.Context, cacheDB string) (ports.GeocodeCache, func(), error) {
	if url := strings.TrimSpace(os.Getenv("DATABASE_URL")); url != "" {
		conn, err := db.Open(url)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return cache.NewSQLGeocodeCache(conn), func() { conn.Close() }, nil
	}

	conn, err := db.OpenSQLite(cacheDB)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return cache.NewSqliteGeocodeCache(conn), func() { conn.Close() }, nil
}
