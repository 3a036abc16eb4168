package entity

import "time"

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // ver access.Role
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WarehouseGrant es el permiso de escritura de un usuario sobre una bodega.
// Lo consulta (solo lectura) la capa de control de acceso; los roles admin y
// manager no lo necesitan.
type WarehouseGrant struct {
	UserID      string
	WarehouseID string
	CreatedAt   time.Time
}
