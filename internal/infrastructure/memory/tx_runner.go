package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones en memoria: las escrituras se acumulan en un write-set
// y se aplican juntas al confirmar. GetForUpdate toma el mutex del producto hasta el final de Run.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

type memTx struct {
	s         *Store
	held      map[string]*sync.Mutex
	products  map[string]*entity.Product
	movements map[string]*entity.Movement
	newMovs   []string
	ops       []func(*Store)
}

func (t *memTx) lock(productID string) {
	if _, ok := t.held[productID]; ok {
		return
	}
	l := t.s.productLock(productID)
	l.Lock()
	t.held[productID] = l
}

func (t *memTx) release() {
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
}

// Run ejecuta fn con repositorios atados a la transacción. Si fn falla, el write-set se descarta.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{
		s:         r.s,
		held:      make(map[string]*sync.Mutex),
		products:  make(map[string]*entity.Product),
		movements: make(map[string]*entity.Movement),
	}
	defer tx.release()

	if err := fn(&MovementRepo{s: r.s, tx: tx}, &ProductRepo{s: r.s, tx: tx}); err != nil {
		return err
	}

	r.s.mu.Lock()
	for _, op := range tx.ops {
		op(r.s)
	}
	r.s.mu.Unlock()
	return nil
}
