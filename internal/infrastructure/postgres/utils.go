package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// Códigos SQLSTATE que se tratan de forma especial.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeInvalidTextRepr      = "22P02" // ej. id que no es un UUID válido
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isConflict serialización fallida o deadlock: la operación se puede reintentar.
func isConflict(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// translate clasifica un error del driver: conflicto → domain.ErrConflict,
// id mal formado → domain.ErrNotFound, cancelación de contexto sin cambios,
// cualquier otro → domain.ErrDependency.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if isConflict(err) {
		return fmt.Errorf("%w: %s: %w", domain.ErrConflict, op, err)
	}
	if pgCode(err) == codeInvalidTextRepr {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.Dependency(op, err)
}
