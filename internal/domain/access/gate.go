// Package access implementa el control de acceso del motor de inventario:
// enum cerrado de roles, tabla de capacidades {rol, tipo de movimiento} y la
// regla de escritura por bodega. Son funciones puras: sin estado propio y sin
// efectos; las asociaciones usuario-bodega las aporta el caller.
package access

import "github.com/jvidalc/stock-core/internal/domain/entity"

// Role es el rol cerrado de un usuario. Reemplaza comparaciones de strings
// libres: cualquier valor fuera del enum se rechaza.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Valid reporta si el rol pertenece al enum.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// capability identifica una celda de la tabla de capacidades.
type capability struct {
	role         Role
	movementType string
}

// canCreate es la tabla explícita {rol, tipo} → permitido.
// ADJUSTMENT queda reservado a admin/manager; IN/OUT/TRANSFER admiten
// también al usuario estándar.
var canCreate = map[capability]bool{
	{RoleAdmin, entity.MovementTypeIN}:           true,
	{RoleAdmin, entity.MovementTypeOUT}:          true,
	{RoleAdmin, entity.MovementTypeTRANSFER}:     true,
	{RoleAdmin, entity.MovementTypeADJUSTMENT}:   true,
	{RoleManager, entity.MovementTypeIN}:         true,
	{RoleManager, entity.MovementTypeOUT}:        true,
	{RoleManager, entity.MovementTypeTRANSFER}:   true,
	{RoleManager, entity.MovementTypeADJUSTMENT}: true,
	{RoleUser, entity.MovementTypeIN}:            true,
	{RoleUser, entity.MovementTypeOUT}:           true,
	{RoleUser, entity.MovementTypeTRANSFER}:      true,
}

// CanCreate decide si el rol puede crear un movimiento del tipo dado.
func CanCreate(movementType string, role Role) bool {
	return canCreate[capability{role: role, movementType: movementType}]
}

// CanWriteWarehouse decide si un usuario puede escribir sobre una bodega.
// Admin y manager pasan incondicionalmente; el resto requiere el grant
// explícito por bodega (hasGrant, consultado por el caller).
func CanWriteWarehouse(role Role, hasGrant bool) bool {
	if role == RoleAdmin || role == RoleManager {
		return true
	}
	return role.Valid() && hasGrant
}
