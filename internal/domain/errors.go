package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrLotUnavailable    = errors.New("no hay lote disponible para el producto")

	// ErrEmailAlreadyExists email duplicado al registrar usuario.
	ErrEmailAlreadyExists = fmt.Errorf("%w: el email ya está registrado", ErrConflict)
	// ErrTransferLinked: la transferencia ya respalda otra venta (concurrencia optimista).
	ErrTransferLinked     = fmt.Errorf("%w: la transferencia ya está vinculada a una venta", ErrConflict)
)

// Invalid envuelve ErrInvalidInput con el detalle del campo rechazado.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
