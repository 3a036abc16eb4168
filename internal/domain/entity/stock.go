package entity

import "time"

// StockKey identifica una fila de stock: bodega + producto + variante.
// VariantID vacío significa "sin variante".
type StockKey struct {
	WarehouseID string
	ProductID   string
	VariantID   string
}

// Stock representa el stock actual de un producto en una bodega (tabla materializada).
// Se crea perezosamente con el primer movimiento que toca la clave y solo lo muta
// el procesador de movimientos. Invariantes: Quantity >= 0 y 0 <= ReservedQty <= Quantity.
type Stock struct {
	WarehouseID string
	ProductID   string
	VariantID   string
	Quantity    int64
	ReservedQty int64
	UpdatedAt   time.Time
}

// Key devuelve la clave (bodega, producto, variante) de la fila.
func (s *Stock) Key() StockKey {
	return StockKey{WarehouseID: s.WarehouseID, ProductID: s.ProductID, VariantID: s.VariantID}
}

// Available devuelve la cantidad disponible (Quantity - ReservedQty).
func (s *Stock) Available() int64 {
	return s.Quantity - s.ReservedQty
}
