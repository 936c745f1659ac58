// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/mcanales/floreria-be/internal/adapters/db"
	"github.com/mcanales/floreria-be/internal/adapters/redisstore"
	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
	"github.com/mcanales/floreria-be/internal/pkg/config"
	"github.com/mcanales/floreria-be/internal/pkg/logger"
)

// Opening catalog for a new install: the flowers the shop stocks daily
// plus the standard bouquet sizes.
type seedEntry struct {
	name     string
	category domain.Category
	stock    int
	minStock int
}

var catalog = []seedEntry{
	{"Rosa Roja", domain.CategoryLooseFlower, 50, 10},
	{"Rosa Blanca", domain.CategoryLooseFlower, 30, 10},
	{"Rosa Rosada", domain.CategoryLooseFlower, 30, 10},
	{"Tulipán", domain.CategoryLooseFlower, 25, 5},
	{"Girasol", domain.CategoryLooseFlower, 20, 5},
	{"Lirio", domain.CategoryLooseFlower, 15, 5},
	{"Gerbera", domain.CategoryLooseFlower, 20, 5},
	{"Clavel", domain.CategoryLooseFlower, 40, 10},
	{"Margarita", domain.CategoryLooseFlower, 30, 8},
	{"Alstroemeria", domain.CategoryLooseFlower, 25, 6},
	{"Ramo Chico", domain.CategoryBouquet, 5, 2},
	{"Ramo Mediano", domain.CategoryBouquet, 5, 2},
	{"Ramo Grande", domain.CategoryBouquet, 3, 1},
	{"Ramo Premium", domain.CategoryBouquet, 2, 1},
}

func main() {
	force := flag.Bool("force", false, "replace the catalog even if products already exist")
	flag.Parse()

	slogger := logger.SetupLogger("info", "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	store, closeStore, err := initStore(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	if err := seed(ctx, store, *force, slogger); err != nil {
		slogger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func seed(ctx context.Context, store ports.Store, force bool, slogger *slog.Logger) error {
	existing, err := store.Products().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(existing) > 0 && !force {
		slogger.Info("catalog already seeded, nothing to do",
			slog.Int("products", len(existing)))
		return nil
	}

	products := make([]domain.Product, 0, len(catalog))
	for _, entry := range catalog {
		p := domain.Product{
			Name:     entry.name,
			Category: entry.category,
			Stock:    entry.stock,
			MinStock: entry.minStock,
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid seed entry %q: %w", entry.name, err)
		}
		p.PrepareForStorage()
		products = append(products, p)
	}

	if err := store.Products().ReplaceAll(ctx, products); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	slogger.Info("catalog seeded",
		slog.Int("products", len(products)),
		slog.Bool("force", force))
	return nil
}

func initStore(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (ports.Store, func(), error) {
	if cfg.StoreBackend == config.StoreBackendPostgres {
		database, err := db.NewDatabase(ctx, &db.Config{
			Host:               cfg.Database.Host,
			Port:               cfg.Database.Port,
			User:               cfg.Database.User,
			Password:           cfg.Database.Password,
			Database:           cfg.Database.Name,
			SSLMode:            cfg.Database.SSLMode,
			MaxConnections:     2,
			MinConnections:     1,
			MaxConnLifetime:    cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
			HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
			ConnectTimeout:     cfg.Database.ConnectTimeout,
			EnableQueryLogging: cfg.Database.EnableQueryLogging,
		}, slogger)
		if err != nil {
			return nil, nil, err
		}
		return db.NewStore(database, slogger), func() { database.Close() }, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return redisstore.NewStore(redisClient, slogger), func() { redisClient.Close() }, nil
}
