package repository

import (
	"context"

	"github.com/jvidalc/stock-core/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios y sus
// grants de escritura por bodega (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)

	// HasWarehouseGrant consulta (solo lectura) el grant explícito usuario-bodega.
	HasWarehouseGrant(ctx context.Context, userID, warehouseID string) (bool, error)
	GrantWarehouse(ctx context.Context, userID, warehouseID string) error
	RevokeWarehouse(ctx context.Context, userID, warehouseID string) error
}
