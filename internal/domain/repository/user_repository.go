package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) si no hay coincidencia.
type UserRepository interface {
	// Create devuelve domain.ErrEmailAlreadyExists si el email ya existe.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateRole devuelve domain.ErrUserNotFound si no existe.
	UpdateRole(ctx context.Context, id, role string) error
	List(ctx context.Context) ([]*entity.User, error)
	// Delete borra físicamente la entrada del directorio. domain.ErrUserNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
