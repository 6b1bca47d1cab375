package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"starmap-service/internal/adapters/cache"
	"starmap-service/internal/adapters/repositories"
	"starmap-service/internal/adapters/secfile"
	"starmap-service/internal/api"
	"starmap-service/internal/domain"
	"starmap-service/internal/platform/db"
	"starmap-service/internal/ports"
	"starmap-service/internal/referee"
	"starmap-service/internal/services"
)

// main is the application composition root. It wires concrete adapters
// (SQLite store, route cache, referee overlay) behind ports and starts the
// HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := getEnv("DB_PATH", "data/starmap.db")
	sectorDir := getEnv("SECTOR_DIR", "data/sectors")
	port := getEnv("PORT", "8080")
	refereeToken := os.Getenv("REFEREE_TOKEN")
	notesPath := os.Getenv("REFEREE_NOTES")

	sdb, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sdb.Close()

	if err := repositories.InitSchema(sdb); err != nil {
		log.Fatal(err)
	}

	store := repositories.NewSQLWorldRepository(sdb)

	// Load any sector files shipped alongside the binary that the store
	// does not know yet.
	if err := importSectorDir(context.Background(), store, sectorDir); err != nil {
		log.Fatal(err)
	}

	routeCache, closeCache, err := openRouteCache(sdb)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	overlay, err := referee.LoadOverlay(notesPath)
	if err != nil {
		log.Fatal(err)
	}
	if refereeToken == "" {
		log.Println("REFEREE_TOKEN not set; referee endpoints disabled")
	}

	router := api.NewRouter(store, routeCache, overlay, refereeToken)

	log.Printf("Server listening addr=:%s db=%s", port, dbPath)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(dbPath string) (*sql.DB, error) {
	sdb, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := sdb.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return sdb, nil
}

// openRouteCache picks the plan cache backend: Redis when REDIS_ADDR is
// set, Postgres when DATABASE_URL is set, the local SQLite database
// otherwise.
func openRouteCache(sdb *sql.DB) (ports.RouteCache, func(), error) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("route cache: verify redis connection to %q: %w", addr, err)
		}
		log.Printf("Route cache backend=redis addr=%s", addr)
		return cache.NewRedisRouteCache(client, 0), func() { client.Close() }, nil
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		pgdb, err := db.Open(url)
		if err != nil {
			return nil, nil, fmt.Errorf("route cache: %w", err)
		}
		if err := cache.EnsureSchema(context.Background(), pgdb); err != nil {
			pgdb.Close()
			return nil, nil, fmt.Errorf("route cache: %w", err)
		}
		log.Printf("Route cache backend=postgres")
		return cache.NewSQLRouteCache(pgdb), func() { pgdb.Close() }, nil
	}

	log.Printf("Route cache backend=sqlite")
	return cache.NewSqliteRouteCache(sdb), func() {}, nil
}

// importSectorDir loads every *.json sector document under dir whose sector
// is not in the store yet. A missing directory is not an error.
func importSectorDir(ctx context.Context, store ports.SectorWriter, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("import sector dir %q: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("import sector dir: read %q: %w", path, err)
		}

		data, err := secfile.DecodeJSON(raw)
		if err != nil {
			return fmt.Errorf("import sector dir: decode %q: %w", path, err)
		}

		_, err = store.GetSector(ctx, data.Sector.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrSectorNotFound) {
			return fmt.Errorf("import sector dir: check %q: %w", data.Sector.Name, err)
		}

		res, err := services.ImportSector(ctx, data, store)
		if err != nil {
			return fmt.Errorf("import sector dir: %q: %w", path, err)
		}
		log.Printf("Imported sector=%q worlds=%d routes=%d batch=%s",
			res.Sector, res.Worlds, res.Routes, res.BatchID)
	}

	return nil
}
