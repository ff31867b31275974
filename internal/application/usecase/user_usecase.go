package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/authz"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios ya registrados.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByID obtiene un usuario por ID. Un usuario puede verse a sí mismo; ver a otros requiere ADMIN.
func (uc *UserUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.UserResponse, error) {
	if actor.ID != id {
		if err := authz.Require(actor.Role, authz.OpManageUsers); err != nil {
			return nil, err
		}
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	return dto.NewUserResponse(user), nil
}

// List devuelve todos los usuarios.
func (uc *UserUseCase) List(ctx context.Context, actor authz.Actor) ([]dto.UserResponse, error) {
	if err := authz.Require(actor.Role, authz.OpManageUsers); err != nil {
		return nil, err
	}
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *dto.NewUserResponse(u))
	}
	return out, nil
}

// UpdateRole cambia el rol de un usuario. Última escritura gana.
func (uc *UserUseCase) UpdateRole(ctx context.Context, actor authz.Actor, id, role string) (*dto.UserResponse, error) {
	if err := authz.Require(actor.Role, authz.OpManageUsers); err != nil {
		return nil, err
	}
	if !entity.IsValidRole(role) {
		return nil, domain.Invalid("rol inválido %q", role)
	}
	if err := uc.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	return dto.NewUserResponse(user), nil
}

// Delete elimina el usuario de forma definitiva. Los movimientos conservan su user_name.
func (uc *UserUseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor.Role, authz.OpManageUsers); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}
