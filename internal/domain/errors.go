package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrWarehouseInactive  = errors.New("bodega inactiva")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)

// InsufficientStockError indica que el movimiento dejaría la cantidad en negativo
// (o por debajo de lo reservado). Envuelve ErrInsufficientStock y lleva las
// cantidades solicitada y disponible para el mensaje al usuario.
type InsufficientStockError struct {
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: solicitado %d, disponible %d", e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// ValidationError indica un request de movimiento mal formado (combinación de
// bodegas incorrecta para el tipo, cantidad no positiva, origen igual a destino).
// Envuelve ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("entrada inválida: %s", e.Reason)
	}
	return fmt.Sprintf("entrada inválida: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
