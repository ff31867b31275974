package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, product_name, quantity, type, created_at, user_id, user_name,
	deleted, deleted_by, deleted_by_name, deleted_at`

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL (pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del libro de movimientos.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.ProductName, &m.Quantity, &m.Type, &m.CreatedAt, &m.UserID, &m.UserName,
		&m.Deleted, &m.DeletedBy, &m.DeletedByName, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta el movimiento con sus copias de nombre de producto y usuario.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.ProductName, m.Quantity, m.Type, m.CreatedAt, m.UserID, m.UserName,
		m.Deleted, m.DeletedBy, m.DeletedByName, m.DeletedAt,
	)
	return translate("insert movement", err)
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get movement", err)
	}
	return m, nil
}

// List movimientos filtrados, del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if !f.IncludeDeleted {
		where = append(where, "deleted = false")
	}
	query := `SELECT ` + movementColumns + ` FROM inventory_movements`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("list movements", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, translate("scan movement", err)
		}
		list = append(list, m)
	}
	return list, translate("list movements", rows.Err())
}

// SoftDelete anota el borrado lógico. No modifica cantidad, tipo ni stock.
func (r *MovementRepo) SoftDelete(ctx context.Context, id string, mark entity.SoftDelete) error {
	query := `
		UPDATE inventory_movements
		SET deleted = true, deleted_by = $2, deleted_by_name = $3, deleted_at = $4
		WHERE id = $1 AND deleted = false`
	tag, err := r.q.Exec(ctx, query, id, mark.DeletedBy, mark.DeletedByName, mark.DeletedAt)
	if err != nil {
		return translate("soft delete movement", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM inventory_movements WHERE id = $1)`, id).Scan(&exists); err != nil {
			return translate("soft delete movement", err)
		}
		if !exists {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
		}
	}
	return nil
}
