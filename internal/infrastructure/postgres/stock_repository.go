package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jvidalc/stock-core/internal/domain"
	"github.com/jvidalc/stock-core/internal/domain/entity"
	"github.com/jvidalc/stock-core/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = "warehouse_id, product_id, variant_id, quantity, reserved_qty, updated_at"

// Get obtiene la fila de stock de una clave, o nil si la clave nunca fue tocada.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE warehouse_id = $1 AND product_id = $2 AND variant_id = $3`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, key.WarehouseID, key.ProductID, key.VariantID).Scan(
		&s.WarehouseID, &s.ProductID, &s.VariantID, &s.Quantity, &s.ReservedQty, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// ApplyDelta aplica el delta como update condicional atómico y devuelve la fila resultante.
//
// Delta positivo: upsert que crea la fila con el delta si no existe, o suma sobre la
// existente. Delta negativo: UPDATE condicionado a que la cantidad resultante no quede
// por debajo de lo reservado; cero filas afectadas significa rechazo sin escribir nada
// (la fila ausente no se materializa). El row lock del UPDATE serializa decrementos
// concurrentes sobre la misma clave: el perdedor evalúa la condición sobre la cantidad
// ya decrementada.
func (r *StockRepo) ApplyDelta(ctx context.Context, key entity.StockKey, delta int64) (*entity.Stock, error) {
	if delta >= 0 {
		query := `
			INSERT INTO stock (warehouse_id, product_id, variant_id, quantity, reserved_qty, updated_at)
			VALUES ($1, $2, $3, $4, 0, now())
			ON CONFLICT (warehouse_id, product_id, variant_id)
			DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()
			RETURNING ` + stockColumns
		var s entity.Stock
		err := r.q.QueryRow(ctx, query, key.WarehouseID, key.ProductID, key.VariantID, delta).Scan(
			&s.WarehouseID, &s.ProductID, &s.VariantID, &s.Quantity, &s.ReservedQty, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("apply stock delta: %w", err)
		}
		return &s, nil
	}

	query := `
		UPDATE stock
		SET quantity = quantity + $4, updated_at = now()
		WHERE warehouse_id = $1 AND product_id = $2 AND variant_id = $3
		  AND quantity + $4 >= reserved_qty
		RETURNING ` + stockColumns
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, key.WarehouseID, key.ProductID, key.VariantID, delta).Scan(
		&s.WarehouseID, &s.ProductID, &s.VariantID, &s.Quantity, &s.ReservedQty, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			available, aerr := r.available(ctx, key)
			if aerr != nil {
				return nil, aerr
			}
			return nil, &domain.InsufficientStockError{Requested: -delta, Available: available}
		}
		return nil, fmt.Errorf("apply stock delta: %w", err)
	}
	return &s, nil
}

// Reserve aparta qty si hay disponible suficiente (quantity - reserved >= qty).
func (r *StockRepo) Reserve(ctx context.Context, key entity.StockKey, qty int64) (*entity.Stock, error) {
	if qty <= 0 {
		return nil, &domain.ValidationError{Field: "qty", Reason: "debe ser positiva"}
	}
	query := `
		UPDATE stock
		SET reserved_qty = reserved_qty + $4, updated_at = now()
		WHERE warehouse_id = $1 AND product_id = $2 AND variant_id = $3
		  AND quantity - reserved_qty >= $4
		RETURNING ` + stockColumns
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, key.WarehouseID, key.ProductID, key.VariantID, qty).Scan(
		&s.WarehouseID, &s.ProductID, &s.VariantID, &s.Quantity, &s.ReservedQty, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			available, aerr := r.available(ctx, key)
			if aerr != nil {
				return nil, aerr
			}
			return nil, &domain.InsufficientStockError{Requested: qty, Available: available}
		}
		return nil, fmt.Errorf("reserve stock: %w", err)
	}
	return &s, nil
}

// Release libera qty reservada; falla con ErrConflict si dejaría reserved_qty negativo.
func (r *StockRepo) Release(ctx context.Context, key entity.StockKey, qty int64) (*entity.Stock, error) {
	if qty <= 0 {
		return nil, &domain.ValidationError{Field: "qty", Reason: "debe ser positiva"}
	}
	query := `
		UPDATE stock
		SET reserved_qty = reserved_qty - $4, updated_at = now()
		WHERE warehouse_id = $1 AND product_id = $2 AND variant_id = $3
		  AND reserved_qty >= $4
		RETURNING ` + stockColumns
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, key.WarehouseID, key.ProductID, key.VariantID, qty).Scan(
		&s.WarehouseID, &s.ProductID, &s.VariantID, &s.Quantity, &s.ReservedQty, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("release stock: %w", err)
	}
	return &s, nil
}

// ListByWarehouse lista las filas de stock de una bodega.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE warehouse_id = $1
		ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by warehouse: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.WarehouseID, &s.ProductID, &s.VariantID, &s.Quantity, &s.ReservedQty, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Summary agrega totales de la bodega: ítems con stock, cantidad, reservado y
// claves por debajo del mínimo del producto.
func (r *StockRepo) Summary(ctx context.Context, warehouseID string) (*repository.StockSummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE s.quantity > 0),
			COALESCE(SUM(s.quantity), 0),
			COALESCE(SUM(s.reserved_qty), 0),
			COUNT(*) FILTER (WHERE p.min_stock > 0 AND s.quantity < p.min_stock)
		FROM stock s
		JOIN products p ON p.id = s.product_id
		WHERE s.warehouse_id = $1`
	summary := repository.StockSummary{WarehouseID: warehouseID}
	err := r.q.QueryRow(ctx, query, warehouseID).Scan(
		&summary.TotalItems, &summary.TotalQuantity, &summary.TotalReserved, &summary.LowStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	return &summary, nil
}

// LowStock devuelve las claves cuyo stock actual es menor que el mínimo del
// producto, ordenadas por mayor déficit primero. warehouseID vacío considera
// todas las bodegas.
func (r *StockRepo) LowStock(ctx context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	var (
		query string
		args  []any
	)

	if warehouseID != "" {
		query = `
			SELECT s.warehouse_id, s.product_id, s.variant_id, p.sku, p.name, s.quantity, p.min_stock
			FROM stock s
			JOIN products p ON p.id = s.product_id
			WHERE s.warehouse_id = $1
			  AND p.min_stock > 0
			  AND s.quantity < p.min_stock
			ORDER BY (p.min_stock - s.quantity) DESC`
		args = []any{warehouseID}
	} else {
		query = `
			SELECT s.warehouse_id, s.product_id, s.variant_id, p.sku, p.name, s.quantity, p.min_stock
			FROM stock s
			JOIN products p ON p.id = s.product_id
			WHERE p.min_stock > 0
			  AND s.quantity < p.min_stock
			ORDER BY (p.min_stock - s.quantity) DESC`
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()

	var items []repository.LowStockItem
	for rows.Next() {
		var item repository.LowStockItem
		if err := rows.Scan(
			&item.WarehouseID, &item.ProductID, &item.VariantID,
			&item.SKU, &item.ProductName, &item.Quantity, &item.MinStock,
		); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// available lee quantity - reserved_qty para armar el error de stock insuficiente;
// fila ausente cuenta como cero.
func (r *StockRepo) available(ctx context.Context, key entity.StockKey) (int64, error) {
	query := `
		SELECT quantity - reserved_qty
		FROM stock WHERE warehouse_id = $1 AND product_id = $2 AND variant_id = $3`
	var available int64
	err := r.q.QueryRow(ctx, query, key.WarehouseID, key.ProductID, key.VariantID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get available: %w", err)
	}
	return available, nil
}
