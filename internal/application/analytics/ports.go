package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

// Cache almacén clave/valor opcional para el snapshot del dashboard.
// Get devuelve ErrCacheMiss (o cualquier error) cuando no hay valor; el caso de uso recalcula.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// StockReport datos del reporte de inventario en PDF.
type StockReport struct {
	Title       string
	GeneratedBy string
	GeneratedAt time.Time
	Stats       dto.DashboardStatsDTO
	Products    []dto.ProductStockDTO // productos activos, por nombre
}

// StockReportRenderer genera el documento del reporte.
type StockReportRenderer interface {
	RenderStockReport(ctx context.Context, report StockReport) ([]byte, error)
}
