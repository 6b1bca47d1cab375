// Maintenance tool for the shared Postgres route cache: applies the
// cache schema and prunes stale entries. Local SQLite deployments do not
// need it; the server maintains its own schema.
package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"starmap-service/internal/adapters/cache"
	"starmap-service/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	ctx := context.Background()

	log.Println("Ensuring route cache schema...")
	if err := cache.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	maxAge := getEnv("CACHE_MAX_AGE_HOURS", "24")
	hours, err := strconv.Atoi(maxAge)
	if err != nil || hours < 1 {
		log.Fatalf("CACHE_MAX_AGE_HOURS must be a positive integer, got %q", maxAge)
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	log.Printf("Pruning cache entries older than %dh...", hours)
	removed, err := cache.Prune(ctx, pool, cutoff)
	if err != nil {
		log.Fatalf("pruning failed: %v", err)
	}
	log.Printf("Pruning complete. Removed %d entries.", removed)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
