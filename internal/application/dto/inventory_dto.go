package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementMeta campos libres comunes a todos los movimientos.
type MovementMeta struct {
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ApplyInRequest entrada (IN): suma qty en la bodega destino.
// UnitCost es opcional; si viene, actualiza el costo promedio del producto.
type ApplyInRequest struct {
	ActorID       string           `json:"actor_id" validate:"required"`
	ProductID     string           `json:"product_id" validate:"required"`
	VariantID     string           `json:"variant_id,omitempty"`
	ToWarehouseID string           `json:"to_warehouse_id" validate:"required"`
	Quantity      int64            `json:"quantity" validate:"required,gt=0"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Meta          MovementMeta     `json:"meta,omitempty"`
}

// ApplyOutRequest salida (OUT): resta qty de la bodega origen.
type ApplyOutRequest struct {
	ActorID         string       `json:"actor_id" validate:"required"`
	ProductID       string       `json:"product_id" validate:"required"`
	VariantID       string       `json:"variant_id,omitempty"`
	FromWarehouseID string       `json:"from_warehouse_id" validate:"required"`
	Quantity        int64        `json:"quantity" validate:"required,gt=0"`
	Meta            MovementMeta `json:"meta,omitempty"`
}

// ApplyTransferRequest traslado (TRANSFER): resta en origen y suma en destino
// como unidad todo-o-nada. Origen y destino deben diferir.
type ApplyTransferRequest struct {
	ActorID         string       `json:"actor_id" validate:"required"`
	ProductID       string       `json:"product_id" validate:"required"`
	VariantID       string       `json:"variant_id,omitempty"`
	FromWarehouseID string       `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string       `json:"to_warehouse_id" validate:"required"`
	Quantity        int64        `json:"quantity" validate:"required,gt=0"`
	Meta            MovementMeta `json:"meta,omitempty"`
}

// ApplyAdjustmentRequest ajuste (ADJUSTMENT): delta con signo sobre una bodega.
type ApplyAdjustmentRequest struct {
	ActorID     string       `json:"actor_id" validate:"required"`
	ProductID   string       `json:"product_id" validate:"required"`
	VariantID   string       `json:"variant_id,omitempty"`
	WarehouseID string       `json:"warehouse_id" validate:"required"`
	Delta       int64        `json:"delta" validate:"required"`
	Meta        MovementMeta `json:"meta,omitempty"`
}

// WarehouseSummaryResponse totales de una bodega para reportes.
type WarehouseSummaryResponse struct {
	WarehouseID   string `json:"warehouse_id"`
	TotalItems    int64  `json:"total_items"`
	TotalQuantity int64  `json:"total_quantity"`
	TotalReserved int64  `json:"total_reserved"`
	LowStockCount int64  `json:"low_stock_count"`
}

// LowStockItemResponse una clave de stock por debajo del mínimo del producto.
type LowStockItemResponse struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id,omitempty"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	MinStock    int64  `json:"min_stock"`
}

// MovementResponse representación de un movimiento ya confirmado.
type MovementResponse struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Quantity        int64           `json:"quantity"`
	ProductID       string          `json:"product_id"`
	VariantID       string          `json:"variant_id,omitempty"`
	FromWarehouseID string          `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string          `json:"to_warehouse_id,omitempty"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Reference       string          `json:"reference,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}
