package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, code, price, stock, image_url,
	created_by, created_by_name, created_at, updated_by, updated_by_name, updated_at,
	deleted, deleted_by, deleted_by_name, deleted_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Code, &p.Price, &p.Stock, &p.ImageURL,
		&p.CreatedBy, &p.CreatedByName, &p.CreatedAt, &p.UpdatedBy, &p.UpdatedByName, &p.UpdatedAt,
		&p.Deleted, &p.DeletedBy, &p.DeletedByName, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Code, p.Price, p.Stock, p.ImageURL,
		p.CreatedBy, p.CreatedByName, p.CreatedAt, p.UpdatedBy, p.UpdatedByName, p.UpdatedAt,
		p.Deleted, p.DeletedBy, p.DeletedByName, p.DeletedAt,
	)
	return translate("insert product", err)
}

// GetByID obtiene un producto por ID, borrado o no.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) get(ctx context.Context, query, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get product", err)
	}
	return p, nil
}

// Update reemplaza los campos editables y la auditoría de edición.
// Un producto borrado no se toca y devuelve ErrNotFound.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, code = $3, price = $4, stock = $5, image_url = $6,
		    updated_by = $7, updated_by_name = $8, updated_at = $9
		WHERE id = $1 AND deleted = false`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Code, p.Price, p.Stock, p.ImageURL,
		p.UpdatedBy, p.UpdatedByName, p.UpdatedAt,
	)
	if err != nil {
		return translate("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, p.ID)
	}
	return nil
}

// UpdateStock escribe el stock calculado por el libro de movimientos.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock = $2 WHERE id = $1`, id, stock)
	if err != nil {
		return translate("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return nil
}

// SoftDelete marca el producto como borrado. La condición deleted = false conserva la primera marca.
func (r *ProductRepo) SoftDelete(ctx context.Context, id string, mark entity.SoftDelete) error {
	query := `
		UPDATE products
		SET deleted = true, deleted_by = $2, deleted_by_name = $3, deleted_at = $4
		WHERE id = $1 AND deleted = false`
	_, err := r.q.Exec(ctx, query, id, mark.DeletedBy, mark.DeletedByName, mark.DeletedAt)
	return translate("soft delete product", err)
}

// List devuelve los productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, includeDeleted bool) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if !includeDeleted {
		query += ` WHERE deleted = false`
	}
	query += ` ORDER BY name, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, translate("list products", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, translate("scan product", err)
		}
		list = append(list, p)
	}
	return list, translate("list products", rows.Err())
}
