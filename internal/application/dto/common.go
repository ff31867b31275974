package dto

import (
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SoftDeleteInfo metadata de borrado lógico. La clave JSON del flag es siempre "deleted".
type SoftDeleteInfo struct {
	Deleted       bool       `json:"deleted"`
	DeletedBy     *string    `json:"deleted_by,omitempty"`
	DeletedByName *string    `json:"deleted_by_name,omitempty"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// FromSoftDelete copia la marca de borrado lógico de una entidad.
func FromSoftDelete(s entity.SoftDelete) SoftDeleteInfo {
	return SoftDeleteInfo{
		Deleted:       s.Deleted,
		DeletedBy:     s.DeletedBy,
		DeletedByName: s.DeletedByName,
		DeletedAt:     s.DeletedAt,
	}
}
