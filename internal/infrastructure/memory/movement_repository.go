package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria de MovementRepository.
type MovementRepo struct {
	s  *Store
	tx *memTx
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	c := cloneMovement(m)
	if r.tx != nil {
		r.tx.movements[c.ID] = c
		r.tx.newMovs = append(r.tx.newMovs, c.ID)
		r.tx.ops = append(r.tx.ops, func(s *Store) {
			s.movements[c.ID] = c
			s.movOrder = append(s.movOrder, c.ID)
		})
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements[c.ID] = c
	r.s.movOrder = append(r.s.movOrder, c.ID)
	return nil
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	if r.tx != nil {
		if m, ok := r.tx.movements[id]; ok {
			return cloneMovement(m), nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneMovement(r.s.movements[id]), nil
}

// List devuelve los movimientos del más reciente al más antiguo.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	ids := make([]string, 0, len(r.s.movOrder))
	ids = append(ids, r.s.movOrder...)
	all := make(map[string]*entity.Movement, len(r.s.movements))
	for id, m := range r.s.movements {
		all[id] = m
	}
	r.s.mu.RUnlock()
	if r.tx != nil {
		ids = append(ids, r.tx.newMovs...)
		for id, m := range r.tx.movements {
			all[id] = m
		}
	}

	out := make([]*entity.Movement, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		m := all[ids[i]]
		if m == nil {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if m.Deleted && !f.IncludeDeleted {
			continue
		}
		out = append(out, cloneMovement(m))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// SoftDelete solo cambia la marca de borrado; no toca el stock.
func (r *MovementRepo) SoftDelete(_ context.Context, id string, mark entity.SoftDelete) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.movements[id]
	if !ok {
		return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	if cur.Deleted {
		return nil
	}
	next := cloneMovement(cur)
	next.SoftDelete = mark
	r.s.movements[id] = next
	return nil
}
