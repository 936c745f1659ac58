// internal/adapters/db/store.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// psql builds queries with Postgres placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Store implements the collection ports over Postgres tables while keeping
// the whole-collection contract: ReplaceAll swaps the table's contents in
// one transaction, List returns rows in their stored order.
type Store struct {
	db     *Database
	logger *slog.Logger

	products  *productStore
	movements *movementStore
	sales     *saleStore
	shift     *shiftStore
}

// Statically assert that *Store implements the Store interface.
var _ ports.Store = (*Store)(nil)

// NewStore creates a new Postgres-backed store
func NewStore(database *Database, logger *slog.Logger) *Store {
	logger = logger.With(slog.String("adapter", "db"))
	return &Store{
		db:        database,
		logger:    logger,
		products:  &productStore{db: database, logger: logger},
		movements: &movementStore{db: database},
		sales:     &saleStore{db: database},
		shift:     &shiftStore{db: database},
	}
}

// Products returns the product collection
func (s *Store) Products() ports.ProductStore { return s.products }

// Movements returns the movement log collection
func (s *Store) Movements() ports.MovementStore { return s.movements }

// Sales returns the sales log collection
func (s *Store) Sales() ports.SaleStore { return s.sales }

// Shift returns the turno state record
func (s *Store) Shift() ports.ShiftStore { return s.shift }

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the underlying pool
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

type productStore struct {
	db     *Database
	logger *slog.Logger
}

func (s *productStore) List(ctx context.Context) ([]domain.Product, error) {
	query, args, err := psql.
		Select("id", "nombre", "categoria", "stock", "stock_minimo",
			"stock_apertura", "unidad", "foto", "fecha_creacion").
		From("productos").
		OrderBy("posicion ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query productos: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Stock, &p.MinStock,
			&p.OpeningStock, &p.Unit, &p.PhotoRef, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan producto: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating productos: %w", err)
	}
	return products, nil
}

func (s *productStore) ReplaceAll(ctx context.Context, products []domain.Product) error {
	err := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM productos"); err != nil {
			return fmt.Errorf("failed to clear productos: %w", err)
		}
		if len(products) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		insert := `
			INSERT INTO productos (
				id, posicion, nombre, categoria, stock, stock_minimo,
				stock_apertura, unidad, foto, fecha_creacion
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		for i, p := range products {
			batch.Queue(insert,
				p.ID, i, p.Name, p.Category, p.Stock, p.MinStock,
				p.OpeningStock, p.Unit, p.PhotoRef, p.CreatedAt)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for range products {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to insert producto: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "productos replaced", slog.Int("count", len(products)))
	return nil
}

type movementStore struct {
	db *Database
}

func (s *movementStore) List(ctx context.Context) ([]domain.Movement, error) {
	query, args, err := psql.
		Select("id", "tipo", "producto_id", "producto_nombre",
			"cantidad", "fecha", "notas").
		From("movimientos").
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movimientos: %w", err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		var m domain.Movement
		if err := rows.Scan(&m.ID, &m.Kind, &m.ProductID, &m.ProductName,
			&m.Quantity, &m.Timestamp, &m.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan movimiento: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movimientos: %w", err)
	}
	return movements, nil
}

func (s *movementStore) Append(ctx context.Context, m domain.Movement) error {
	query, args, err := psql.
		Insert("movimientos").
		Columns("id", "tipo", "producto_id", "producto_nombre",
			"cantidad", "fecha", "notas").
		Values(m.ID, m.Kind, m.ProductID, m.ProductName,
			m.Quantity, m.Timestamp, m.Notes).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert movimiento: %w", err)
	}
	return nil
}

type saleStore struct {
	db *Database
}

func (s *saleStore) List(ctx context.Context) ([]domain.Sale, error) {
	query, args, err := psql.
		Select("id", "fecha", "productos", "total",
			"metodo_pago", "es_uber", "notas").
		From("ventas").
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ventas: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var (
			sale     domain.Sale
			itemsRaw []byte
			total    decimal.Decimal
			method   *string
		)
		if err := rows.Scan(&sale.ID, &sale.Timestamp, &itemsRaw, &total,
			&method, &sale.IsDelivery, &sale.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan venta: %w", err)
		}
		if err := json.Unmarshal(itemsRaw, &sale.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal venta items: %w", err)
		}
		sale.Total = total
		if method != nil {
			pm := domain.PaymentMethod(*method)
			sale.PaymentMethod = &pm
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ventas: %w", err)
	}
	return sales, nil
}

func (s *saleStore) Append(ctx context.Context, sale domain.Sale) error {
	items, err := json.Marshal(sale.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal venta items: %w", err)
	}

	var method *string
	if sale.PaymentMethod != nil {
		m := string(*sale.PaymentMethod)
		method = &m
	}

	query, args, err := psql.
		Insert("ventas").
		Columns("id", "fecha", "productos", "total",
			"metodo_pago", "es_uber", "notas").
		Values(sale.ID, sale.Timestamp, items, sale.Total,
			method, sale.IsDelivery, sale.Notes).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert venta: %w", err)
	}
	return nil
}

type shiftStore struct {
	db *Database
}

func (s *shiftStore) Get(ctx context.Context) (domain.ShiftState, error) {
	var (
		state    domain.ShiftState
		openedAt *time.Time
		closedAt *time.Time
	)
	err := s.db.QueryRow(ctx,
		"SELECT abierto, fecha_apertura, fecha_cierre FROM turno WHERE id = 1").
		Scan(&state.IsOpen, &openedAt, &closedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Never opened
			return domain.ShiftState{}, nil
		}
		return domain.ShiftState{}, fmt.Errorf("failed to query turno: %w", err)
	}
	state.OpenedAt = openedAt
	state.ClosedAt = closedAt
	return state, nil
}

func (s *shiftStore) Set(ctx context.Context, state domain.ShiftState) error {
	query := `
		INSERT INTO turno (id, abierto, fecha_apertura, fecha_cierre)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			abierto = EXCLUDED.abierto,
			fecha_apertura = EXCLUDED.fecha_apertura,
			fecha_cierre = EXCLUDED.fecha_cierre`

	if _, err := s.db.Exec(ctx, query, state.IsOpen, state.OpenedAt, state.ClosedAt); err != nil {
		return fmt.Errorf("failed to upsert turno: %w", err)
	}
	return nil
}
