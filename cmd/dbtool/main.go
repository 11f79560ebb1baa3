package main

import (
	"context"
	"flag"
	"fmt"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/catalog"
	"fuel-route-service/internal/config"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
)

const usage = `usage: dbtool <command> [flags]

commands:
  init                 create the fuel stop schema
  import -input FILE   load a geocoded OPIS price CSV
`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	driver := strings.ToLower(config.Get("STORE_DRIVER", "sqlite"))
	dbPath := config.Get("DB_PATH", "data/fuel.db")
	databaseURL := os.Getenv("DATABASE_URL")
	if driver == "postgres" && strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required when STORE_DRIVER=postgres")
	}

	switch os.Args[1] {
	case "init":
		log.Println("Initializing database schema...")
		_, db, err := repositories.OpenStore(ctx, driver, dbPath, databaseURL)
		if err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		db.Close()
		log.Println("Schema ready.")

	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		input := fs.String("input", "data/fuelstops_address_geocoded.csv", "geocoded CSV to import")
		_ = fs.Parse(os.Args[2:])

		if err := runImport(ctx, driver, dbPath, databaseURL, *input); err != nil {
			log.Fatal(err)
		}

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runImport(ctx context.Context, driver, dbPath, databaseURL, input string) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("import: open %q: %w", input, err)
	}
	defer f.Close()

	store, db, err := repositories.OpenStore(ctx, driver, dbPath, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Printf("Importing fuel stops from %s...", input)
	created, err := catalog.ImportCSV(ctx, f, store)
	if err != nil {
		return err
	}

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	log.Printf("Import complete. created=%d total=%d", created, total)
	return nil
}
