package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// txBeginner lo implementan *pgxpool.Pool y *pgx.Conn.
type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxRunner ejecuta un registro de movimiento dentro de una transacción.
// Aislamiento READ COMMITTED: la serialización por producto la da el SELECT ... FOR UPDATE
// de GetForUpdate, no el nivel de aislamiento.
type TxRunner struct {
	db   txBeginner
	opts pgx.TxOptions
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db txBeginner) *TxRunner {
	return &TxRunner{db: db, opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}}
}

// Run pasa a fn repositorios atados a la tx. Error en fn → Rollback; si no, Commit.
// Deadlock o fallo de serialización (en fn o en el commit) → domain.ErrConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) (err error) {
	tx, err := r.db.BeginTx(ctx, r.opts)
	if err != nil {
		return translate("iniciar transacción", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err = fn(NewMovementRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return translate("confirmar transacción", err)
	}
	return nil
}
