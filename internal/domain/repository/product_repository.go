package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	// Solo tiene sentido con un repositorio atado a una tx (TxRunner).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update reemplaza el registro completo. domain.ErrNotFound si no existe.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock escribe el nuevo contador de stock (usado por el libro de movimientos).
	UpdateStock(ctx context.Context, id string, stock int) error
	// SoftDelete marca el producto como borrado si aún no lo está; si ya lo estaba no hace nada.
	SoftDelete(ctx context.Context, id string, mark entity.SoftDelete) error
	List(ctx context.Context, includeDeleted bool) ([]*entity.Product, error)
}
