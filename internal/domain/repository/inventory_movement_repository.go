package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos. ProductID vacío = todos.
type MovementFilter struct {
	ProductID      string
	IncludeDeleted bool
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Los movimientos nunca se actualizan salvo la anotación de borrado lógico.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// List devuelve los movimientos ordenados por fecha descendente.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	SoftDelete(ctx context.Context, id string, mark entity.SoftDelete) error
}
