package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Se comparan con errors.Is; el detalle se agrega envolviendo con %w.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrDependency         = errors.New("dependencia no disponible")
)

// Invalid envuelve ErrInvalidInput con un detalle legible.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Dependency envuelve un fallo de infraestructura (BD, caché, proveedor de identidad).
// Conserva el error original para errors.Is / errors.As.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrDependency, op, err)
}
