package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jvidalc/stock-core/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// UpdateCost actualiza el costo promedio ponderado (lo usa el procesador en movimientos IN).
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
}
