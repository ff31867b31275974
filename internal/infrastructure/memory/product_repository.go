package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s  *Store
	tx *memTx // nil fuera de transacción
}

func (r *ProductRepo) load(id string) *entity.Product {
	if r.tx != nil {
		if p, ok := r.tx.products[id]; ok {
			return p
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.products[id]
}

// put guarda p (ya copiado). En transacción queda pendiente hasta el commit;
// fuera de ella se serializa con el mutex del producto.
func (r *ProductRepo) put(p *entity.Product) {
	if r.tx != nil {
		r.tx.products[p.ID] = p
		r.tx.ops = append(r.tx.ops, func(s *Store) { s.products[p.ID] = p })
		return
	}
	l := r.s.productLock(p.ID)
	l.Lock()
	defer l.Unlock()
	r.s.mu.Lock()
	r.s.products[p.ID] = p
	r.s.mu.Unlock()
}

// modify aplica fn sobre una copia del producto vigente. Fuera de transacción
// lee y escribe con el mutex del producto tomado.
func (r *ProductRepo) modify(id string, fn func(p *entity.Product) bool) error {
	if r.tx == nil {
		l := r.s.productLock(id)
		l.Lock()
		defer l.Unlock()
	}
	cur := r.load(id)
	if cur == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	next := cloneProduct(cur)
	if !fn(next) {
		return nil
	}
	if r.tx != nil {
		r.put(next)
		return nil
	}
	r.s.mu.Lock()
	r.s.products[id] = next
	r.s.mu.Unlock()
	return nil
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.put(cloneProduct(p))
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return cloneProduct(r.load(id)), nil
}

// GetForUpdate bloquea el producto hasta el fin de la transacción y devuelve el valor vigente.
func (r *ProductRepo) GetForUpdate(_ context.Context, id string) (*entity.Product, error) {
	if r.tx == nil {
		return nil, fmt.Errorf("GetForUpdate fuera de transacción")
	}
	r.tx.lock(id)
	return cloneProduct(r.load(id)), nil
}

// Update copia solo los campos editables y la auditoría de edición; la marca de
// borrado y los datos de creación se conservan. Un producto borrado → ErrNotFound.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	var deleted bool
	err := r.modify(p.ID, func(next *entity.Product) bool {
		if next.Deleted {
			deleted = true
			return false
		}
		next.Name = p.Name
		next.Code = p.Code
		next.Price = p.Price
		next.Stock = p.Stock
		next.ImageURL = p.ImageURL
		next.UpdatedBy = p.UpdatedBy
		next.UpdatedByName = p.UpdatedByName
		next.UpdatedAt = p.UpdatedAt
		return true
	})
	if err == nil && deleted {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, p.ID)
	}
	return err
}

func (r *ProductRepo) UpdateStock(_ context.Context, id string, stock int) error {
	return r.modify(id, func(next *entity.Product) bool {
		next.Stock = stock
		return true
	})
}

func (r *ProductRepo) SoftDelete(_ context.Context, id string, mark entity.SoftDelete) error {
	return r.modify(id, func(next *entity.Product) bool {
		if next.Deleted {
			return false
		}
		next.SoftDelete = mark
		return true
	})
}

// List devuelve los productos ordenados por nombre.
func (r *ProductRepo) List(_ context.Context, includeDeleted bool) ([]*entity.Product, error) {
	r.s.mu.RLock()
	merged := make(map[string]*entity.Product, len(r.s.products))
	for id, p := range r.s.products {
		merged[id] = p
	}
	r.s.mu.RUnlock()
	if r.tx != nil {
		for id, p := range r.tx.products {
			merged[id] = p
		}
	}

	out := make([]*entity.Product, 0, len(merged))
	for _, p := range merged {
		if p.Deleted && !includeDeleted {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
