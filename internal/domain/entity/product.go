package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock es un contador mantenido por el libro de movimientos, no una vista derivada.
type Product struct {
	ID       string
	Name     string
	Code     string // etiqueta de negocio opcional, no única
	Price    decimal.Decimal
	Stock    int
	ImageURL string

	CreatedBy     string
	CreatedByName string
	CreatedAt     time.Time

	// nil hasta la primera edición
	UpdatedBy     *string
	UpdatedByName *string
	UpdatedAt     *time.Time

	SoftDelete
}

// InventoryValue devuelve price × stock.
func (p *Product) InventoryValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// SoftDelete agrupa la marca de borrado lógico y su metadata de auditoría.
// Deleted y DeletedAt/DeletedBy se asignan siempre juntos.
type SoftDelete struct {
	Deleted       bool
	DeletedBy     *string
	DeletedByName *string
	DeletedAt     *time.Time
}

// MarkDeleted fija la marca y la metadata. No hace nada si ya estaba borrado.
func (s *SoftDelete) MarkDeleted(actorID, actorName string, at time.Time) bool {
	if s.Deleted {
		return false
	}
	s.Deleted = true
	s.DeletedBy = &actorID
	s.DeletedByName = &actorName
	s.DeletedAt = &at
	return true
}
