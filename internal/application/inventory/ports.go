package inventory

import (
	"context"

	"github.com/jvidalc/stock-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de inventario: o se aplican
// todas las mutaciones de stock y el registro en el libro, o ninguna. La
// implementación puede reintentar fn completa ante fallos de serialización, por lo
// que fn debe ser re-ejecutable.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}
