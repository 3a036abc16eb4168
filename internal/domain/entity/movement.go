package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste (delta con signo)
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre bodegas
)

// Movement representa un movimiento de inventario (entrada, salida, ajuste o traslado).
// Es inmutable: se crea una sola vez dentro de la misma transacción que muta el stock
// y nunca se actualiza ni se borra. El libro de movimientos es la fuente de verdad:
// el stock materializado siempre debe poder reconstruirse sumando sus deltas.
//
// Quantity es magnitud positiva para IN/OUT/TRANSFER (el signo lo fija el tipo y las
// bodegas origen/destino) y delta con signo para ADJUSTMENT.
type Movement struct {
	ID              string
	Type            string
	Quantity        int64
	ProductID       string
	VariantID       string // "" = sin variante
	FromWarehouseID string // vacío salvo OUT/TRANSFER
	ToWarehouseID   string // vacío salvo IN/ADJUSTMENT/TRANSFER
	UnitCost        decimal.Decimal
	Reference       string
	Notes           string
	CreatedBy       string // UserID del actor
	CreatedAt       time.Time
}

// StockDelta es el efecto con signo de un movimiento sobre una clave de stock.
type StockDelta struct {
	Key   StockKey
	Delta int64
}

// Deltas devuelve los efectos con signo del movimiento por clave de stock.
// Un TRANSFER produce dos deltas (−q origen, +q destino); el resto uno solo.
func (m *Movement) Deltas() []StockDelta {
	switch m.Type {
	case MovementTypeIN:
		return []StockDelta{{Key: StockKey{m.ToWarehouseID, m.ProductID, m.VariantID}, Delta: m.Quantity}}
	case MovementTypeOUT:
		return []StockDelta{{Key: StockKey{m.FromWarehouseID, m.ProductID, m.VariantID}, Delta: -m.Quantity}}
	case MovementTypeADJUSTMENT:
		return []StockDelta{{Key: StockKey{m.ToWarehouseID, m.ProductID, m.VariantID}, Delta: m.Quantity}}
	case MovementTypeTRANSFER:
		return []StockDelta{
			{Key: StockKey{m.FromWarehouseID, m.ProductID, m.VariantID}, Delta: -m.Quantity},
			{Key: StockKey{m.ToWarehouseID, m.ProductID, m.VariantID}, Delta: m.Quantity},
		}
	}
	return nil
}
