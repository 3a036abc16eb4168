package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// Cost es promedio ponderado calculado desde movimientos de entrada;
// el stock se maneja por bodega en Stock.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Unit        string // unidad de medida (und, kg, lt, ...)
	MinStock    int64  // umbral para reportes de stock bajo
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
