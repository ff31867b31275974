package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Inventario-ledger/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats devuelve el resumen del inventario.
// GET /api/dashboard/stats
//
// Respuesta: DashboardStatsDTO (total_products, total_movements, total_stock,
// low_stock_products, total_inventory_value, recent_products).
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}

// GetStockReport genera el reporte de existencias en PDF.
// GET /api/dashboard/report.pdf
func (h *DashboardHandler) GetStockReport(c *fiber.Ctx) error {
	pdf, err := h.uc.StockReport(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="existencias-%s.pdf"`, time.Now().Format("20060102")))
	return c.Send(pdf)
}
