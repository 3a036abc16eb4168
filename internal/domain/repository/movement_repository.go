package repository

import (
	"context"
	"time"

	"github.com/jvidalc/stock-core/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para el libro de movimientos (DIP).
// El libro es append-only: solo Create escribe y lo hace una única vez por movimiento,
// dentro de la misma transacción que la mutación de stock que representa.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
}
