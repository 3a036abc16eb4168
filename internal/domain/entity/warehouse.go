package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// Una bodega inactiva no admite movimientos nuevos.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
