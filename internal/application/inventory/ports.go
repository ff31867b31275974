package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error todo se revierte; si no, se confirma como una unidad.
// Los conflictos de concurrencia del backend se devuelven envueltos en domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
