package inventory

import (
	"context"

	"github.com/jvidalc/stock-core/internal/application/dto"
	"github.com/jvidalc/stock-core/internal/domain/entity"
	"github.com/jvidalc/stock-core/internal/domain/repository"
)

// StockUseCase expone el lado de lectura del stock materializado (disponibilidad,
// resumen por bodega, stock bajo) y el contador simple de reservas.
//
// Available es un filtro optimista: sirve para respuestas rápidas al usuario,
// no es el mecanismo de enforcement (eso lo hace el procesador dentro de la tx).
type StockUseCase struct {
	stockRepo repository.StockRepository
}

// NewStockUseCase construye el caso de uso de lectura de stock.
func NewStockUseCase(stockRepo repository.StockRepository) *StockUseCase {
	return &StockUseCase{stockRepo: stockRepo}
}

// Available devuelve quantity - reserved para la clave; ausencia de fila es cero.
func (uc *StockUseCase) Available(ctx context.Context, key entity.StockKey) (int64, error) {
	stock, err := uc.stockRepo.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if stock == nil {
		return 0, nil
	}
	return stock.Available(), nil
}

// Get devuelve la fila de stock o nil si la clave nunca fue tocada.
func (uc *StockUseCase) Get(ctx context.Context, key entity.StockKey) (*entity.Stock, error) {
	return uc.stockRepo.Get(ctx, key)
}

// Summary devuelve los totales de una bodega (ítems, cantidad, reservado, stock bajo).
func (uc *StockUseCase) Summary(ctx context.Context, warehouseID string) (*dto.WarehouseSummaryResponse, error) {
	s, err := uc.stockRepo.Summary(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.WarehouseSummaryResponse{
		WarehouseID:   s.WarehouseID,
		TotalItems:    s.TotalItems,
		TotalQuantity: s.TotalQuantity,
		TotalReserved: s.TotalReserved,
		LowStockCount: s.LowStockCount,
	}, nil
}

// LowStockItems devuelve las claves con quantity < products.min_stock.
// warehouseID vacío considera todas las bodegas.
func (uc *StockUseCase) LowStockItems(ctx context.Context, warehouseID string) ([]dto.LowStockItemResponse, error) {
	items, err := uc.stockRepo.LowStock(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockItemResponse{
			WarehouseID: it.WarehouseID,
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			MinStock:    it.MinStock,
		})
	}
	return out, nil
}

// Reserve aparta qty contra asignaciones futuras. Falla si available < qty.
func (uc *StockUseCase) Reserve(ctx context.Context, key entity.StockKey, qty int64) (*entity.Stock, error) {
	return uc.stockRepo.Reserve(ctx, key, qty)
}

// Release libera qty reservada. Falla si dejaría reserved_qty negativo.
func (uc *StockUseCase) Release(ctx context.Context, key entity.StockKey, qty int64) (*entity.Stock, error) {
	return uc.stockRepo.Release(ctx, key, qty)
}
