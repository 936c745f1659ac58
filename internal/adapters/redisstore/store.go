// internal/adapters/redisstore/store.go
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// Keys of the four collections. Each collection is one JSON document; a
// write replaces the whole value, last writer wins.
const (
	KeyProducts  = "floreria:productos"
	KeyMovements = "floreria:movimientos"
	KeySales     = "floreria:ventas"
	KeyShift     = "floreria:turno"
)

// Store keeps the four collections as JSON documents in Redis. A missing
// key reads as the empty collection, so a fresh database needs no seeding.
type Store struct {
	client *redis.Client
	logger *slog.Logger

	products  *collection[domain.Product]
	movements *collection[domain.Movement]
	sales     *collection[domain.Sale]
}

// Statically assert that *Store implements the Store interface.
var _ ports.Store = (*Store)(nil)

// NewStore creates a new Redis-backed store
func NewStore(client *redis.Client, logger *slog.Logger) *Store {
	logger = logger.With(slog.String("adapter", "redisstore"))
	return &Store{
		client:    client,
		logger:    logger,
		products:  &collection[domain.Product]{client: client, key: KeyProducts, logger: logger},
		movements: &collection[domain.Movement]{client: client, key: KeyMovements, logger: logger},
		sales:     &collection[domain.Sale]{client: client, key: KeySales, logger: logger},
	}
}

// Products returns the product collection
func (s *Store) Products() ports.ProductStore { return s.products }

// Movements returns the movement log collection
func (s *Store) Movements() ports.MovementStore { return s.movements }

// Sales returns the sales log collection
func (s *Store) Sales() ports.SaleStore { return s.sales }

// Shift returns the turno state record
func (s *Store) Shift() ports.ShiftStore { return (*shiftStore)(s) }

// Ping checks if Redis is accessible
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping error: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}

// collection is one whole-document JSON list under a fixed key
type collection[T any] struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get error for %s: %w", c.key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal error for %s: %w", c.key, err)
	}
	return items, nil
}

func (c *collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal error for %s: %w", c.key, err)
	}
	if err := c.client.Set(ctx, c.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set error for %s: %w", c.key, err)
	}

	c.logger.DebugContext(ctx, "collection replaced",
		slog.String("key", c.key),
		slog.Int("items", len(items)))
	return nil
}

func (c *collection[T]) Append(ctx context.Context, item T) error {
	items, err := c.List(ctx)
	if err != nil {
		return err
	}
	return c.ReplaceAll(ctx, append(items, item))
}

// shiftStore reads the turno singleton; a missing key is the never-opened
// state, not an error
type shiftStore Store

func (s *shiftStore) Get(ctx context.Context) (domain.ShiftState, error) {
	data, err := s.client.Get(ctx, KeyShift).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.ShiftState{}, nil
		}
		return domain.ShiftState{}, fmt.Errorf("redis get error for %s: %w", KeyShift, err)
	}

	var state domain.ShiftState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.ShiftState{}, fmt.Errorf("unmarshal error for %s: %w", KeyShift, err)
	}
	return state, nil
}

func (s *shiftStore) Set(ctx context.Context, state domain.ShiftState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal error for %s: %w", KeyShift, err)
	}
	if err := s.client.Set(ctx, KeyShift, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set error for %s: %w", KeyShift, err)
	}
	return nil
}
