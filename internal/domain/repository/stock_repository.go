package repository

import (
	"context"

	"github.com/jvidalc/stock-core/internal/domain/entity"
)

// StockSummary agrega los totales de una bodega para la capa de reportes.
type StockSummary struct {
	WarehouseID   string
	TotalItems    int64 // filas de stock con cantidad > 0
	TotalQuantity int64
	TotalReserved int64
	LowStockCount int64 // filas con cantidad < products.min_stock
}

// LowStockItem es una clave de stock cuyo nivel está por debajo del mínimo del producto.
type LowStockItem struct {
	WarehouseID string
	ProductID   string
	VariantID   string
	SKU         string
	ProductName string
	Quantity    int64
	MinStock    int64
}

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto+variante.
// ApplyDelta es el único mutador de cantidad y lo invoca exclusivamente el procesador de
// movimientos dentro de su transacción: aplica el delta como update condicional atómico
// (la cantidad resultante nunca puede quedar negativa ni por debajo de lo reservado) y
// crea la fila si no existe. Si la condición falla devuelve *domain.InsufficientStockError.
type StockRepository interface {
	Get(ctx context.Context, key entity.StockKey) (*entity.Stock, error)
	ApplyDelta(ctx context.Context, key entity.StockKey, delta int64) (*entity.Stock, error)

	// Reserve y Release ajustan reserved_qty con las mismas invariantes
	// (0 <= reserved <= quantity) en un solo update condicional.
	Reserve(ctx context.Context, key entity.StockKey, qty int64) (*entity.Stock, error)
	Release(ctx context.Context, key entity.StockKey, qty int64) (*entity.Stock, error)

	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Stock, error)
	Summary(ctx context.Context, warehouseID string) (*StockSummary, error)
	// LowStock devuelve las claves con quantity < products.min_stock.
	// warehouseID vacío considera todas las bodegas.
	LowStock(ctx context.Context, warehouseID string) ([]LowStockItem, error)
}
