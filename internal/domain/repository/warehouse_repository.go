package repository

import (
	"context"

	"github.com/jvidalc/stock-core/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para bodegas (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context) ([]*entity.Warehouse, error)
	SetActive(ctx context.Context, id string, active bool) error
}
