package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/authz"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// Límites del precio: dos decimales y menos de 10^12 (columna NUMERIC(14,2)).
const priceScale = 2

var maxPrice = decimal.New(1, 12)

// ProductUseCase casos de uso del catálogo. El stock solo varía por movimientos
// o por una edición explícita del producto.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: time.Now}
}

// Create crea un nuevo producto con la auditoría de creación del actor.
func (uc *ProductUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := authz.Require(actor.Role, authz.OpWriteProduct); err != nil {
		return nil, err
	}
	name, err := validateProductFields(in.Name, in.Price, in.Stock)
	if err != nil {
		return nil, err
	}
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          name,
		Code:          strings.TrimSpace(in.Code),
		Price:         in.Price,
		Stock:         in.Stock,
		ImageURL:      in.ImageURL,
		CreatedBy:     actor.ID,
		CreatedByName: actor.Name,
		CreatedAt:     uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Los productos borrados también se devuelven.
func (uc *ProductUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.ProductResponse, error) {
	if err := authz.Require(actor.Role, authz.OpReadCatalog); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// Update reemplaza los campos editables y registra la auditoría de edición.
// Un producto borrado no se puede editar.
func (uc *ProductUseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := authz.Require(actor.Role, authz.OpWriteProduct); err != nil {
		return nil, err
	}
	name, err := validateProductFields(in.Name, in.Price, in.Stock)
	if err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.Deleted {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	now := uc.now().UTC()
	product.Name = name
	product.Code = strings.TrimSpace(in.Code)
	product.Price = in.Price
	product.Stock = in.Stock
	product.ImageURL = in.ImageURL
	product.UpdatedBy = &actor.ID
	product.UpdatedByName = &actor.Name
	product.UpdatedAt = &now
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// SoftDelete marca el producto como borrado. El stock y los movimientos se conservan.
// Repetir la operación no cambia la metadata original.
func (uc *ProductUseCase) SoftDelete(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor.Role, authz.OpDeleteProduct); err != nil {
		return err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if !product.MarkDeleted(actor.ID, actor.Name, uc.now().UTC()) {
		return nil
	}
	return uc.repo.SoftDelete(ctx, id, product.SoftDelete)
}

// List lista productos; por defecto excluye los borrados. Search filtra por nombre o código
// sin distinguir mayúsculas ni tildes.
func (uc *ProductUseCase) List(ctx context.Context, actor authz.Actor, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	if err := authz.Require(actor.Role, authz.OpReadCatalog); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, q.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	term := foldText(q.Search)
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		if !matchesSearch(term, p.Name, p.Code) {
			continue
		}
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

func validateProductFields(name string, price decimal.Decimal, stock int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Invalid("el nombre es obligatorio")
	}
	if price.IsNegative() {
		return "", domain.Invalid("el precio no puede ser negativo")
	}
	if !price.Equal(price.Round(priceScale)) {
		return "", domain.Invalid("el precio admite como máximo %d decimales", priceScale)
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return "", domain.Invalid("el precio debe ser menor que %s", maxPrice.String())
	}
	if stock < 0 {
		return "", domain.Invalid("el stock no puede ser negativo")
	}
	if stock > inventory.MaxStock {
		return "", domain.Invalid("el stock no puede superar %d", inventory.MaxStock)
	}
	return name, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Code:           p.Code,
		Price:          p.Price,
		Stock:          p.Stock,
		ImageURL:       p.ImageURL,
		InventoryValue: p.InventoryValue(),
		CreatedBy:      p.CreatedBy,
		CreatedByName:  p.CreatedByName,
		CreatedAt:      p.CreatedAt,
		UpdatedBy:      p.UpdatedBy,
		UpdatedByName:  p.UpdatedByName,
		UpdatedAt:      p.UpdatedAt,
		SoftDeleteInfo: dto.FromSoftDelete(p.SoftDelete),
	}
}
