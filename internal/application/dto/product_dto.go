package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Code     string          `json:"code"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	ImageURL string          `json:"image_url"`
}

// UpdateProductRequest reemplazo completo de los campos editables.
// El stock se puede corregir aquí; las variaciones normales pasan por movimientos.
type UpdateProductRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Code     string          `json:"code"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	ImageURL string          `json:"image_url"`
}

// ProductListQuery filtros de GET /api/products.
type ProductListQuery struct {
	IncludeDeleted bool
	Search         string
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	ImageURL       string          `json:"image_url"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	CreatedBy      string          `json:"created_by"`
	CreatedByName  string          `json:"created_by_name"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedBy      *string         `json:"updated_by,omitempty"`
	UpdatedByName  *string         `json:"updated_by_name,omitempty"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
	SoftDeleteInfo
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
