package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jvidalc/stock-core/internal/domain/entity"
	"github.com/jvidalc/stock-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lee: el libro es append-only por diseño y el esquema no tiene UPDATE/DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = "id, type, quantity, product_id, variant_id, from_warehouse_id, to_warehouse_id, unit_cost, reference, notes, created_by, created_at"

// Create persiste un movimiento. Se invoca una única vez por movimiento, dentro
// de la misma transacción que la mutación de stock que representa.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.Type, movement.Quantity, movement.ProductID, movement.VariantID,
		nullable(movement.FromWarehouseID), nullable(movement.ToWarehouseID),
		movement.UnitCost, nullable(movement.Reference), nullable(movement.Notes),
		nullable(movement.CreatedBy), movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByWarehouse lista movimientos que tocan una bodega (origen o destino) en un rango de fechas.
func (r *MovementRepo) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements WHERE (from_warehouse_id = $1 OR to_warehouse_id = $1)`
	args := []any{warehouseID}
	query, args = appendDateRange(query, args, from, to)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements WHERE product_id = $1`
	args := []any{productID}
	query, args = appendDateRange(query, args, from, to)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func appendDateRange(query string, args []any, from, to *time.Time) (string, []any) {
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	return query, args
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var fromWh, toWh, reference, notes, createdBy *string
	err := row.Scan(
		&m.ID, &m.Type, &m.Quantity, &m.ProductID, &m.VariantID,
		&fromWh, &toWh, &m.UnitCost, &reference, &notes, &createdBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.FromWarehouseID = deref(fromWh)
	m.ToWarehouseID = deref(toWh)
	m.Reference = deref(reference)
	m.Notes = deref(notes)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
