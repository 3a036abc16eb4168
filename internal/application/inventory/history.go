package inventory

import (
	"context"
	"time"

	"github.com/jvidalc/stock-core/internal/domain/entity"
	"github.com/jvidalc/stock-core/internal/domain/repository"
)

// HistoryUseCase expone consultas de solo lectura sobre el libro de movimientos.
type HistoryUseCase struct {
	movRepo repository.MovementRepository
}

// NewHistoryUseCase construye el caso de uso de historial.
func NewHistoryUseCase(movRepo repository.MovementRepository) *HistoryUseCase {
	return &HistoryUseCase{movRepo: movRepo}
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (uc *HistoryUseCase) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return uc.movRepo.GetByID(ctx, id)
}

// ListByWarehouse lista movimientos que tocan una bodega (como origen o destino)
// en un rango de fechas.
func (uc *HistoryUseCase) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return uc.movRepo.ListByWarehouse(ctx, warehouseID, from, to, limit, offset)
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (uc *HistoryUseCase) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return uc.movRepo.ListByProduct(ctx, productID, from, to, limit, offset)
}
