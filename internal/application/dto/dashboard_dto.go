package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
// Proyección de solo lectura; se recalcula en cada consulta (o se sirve de caché por un TTL corto).
type DashboardStatsDTO struct {
	TotalProducts       int               `json:"total_products"`
	TotalMovements      int               `json:"total_movements"`
	DeletedMovements    int               `json:"deleted_movements"`
	TotalStock          int               `json:"total_stock"`
	LowStockThreshold   int               `json:"low_stock_threshold"`
	LowStockCount       int               `json:"low_stock_count"`
	LowStockProducts    []ProductStockDTO `json:"low_stock_products"`
	TotalInventoryValue decimal.Decimal   `json:"total_inventory_value"`
	RecentProducts      []ProductStockDTO `json:"recent_products"`
	GeneratedAt         time.Time         `json:"generated_at"`
}

// ProductStockDTO resumen de un producto para los widgets del dashboard.
type ProductStockDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Stock     int             `json:"stock"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}
