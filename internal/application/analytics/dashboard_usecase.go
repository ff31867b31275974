// Package analytics contiene los casos de uso de solo lectura sobre el inventario:
// estadísticas del dashboard y reporte de stock.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain/authz"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

const statsCacheKey = "dashboard:stats"

// Config parámetros explícitos del agregador.
type Config struct {
	LowStockThreshold int
	RecentProducts    int
	CacheTTL          time.Duration // 0 = sin caché
}

// DashboardUseCase recalcula las estadísticas a partir del catálogo y del libro.
// No guarda estado propio; la caché es opcional y sus fallos solo se registran.
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	cache       Cache
	renderer    StockReportRenderer
	cfg         Config
	log         *logger.Logger
	now         func() time.Time
	// gen avanza con cada Invalidate; un cálculo que empezó antes no se guarda.
	gen atomic.Uint64
}

// NewDashboardUseCase construye el caso de uso. cache y renderer pueden ser nil.
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	cache Cache,
	renderer StockReportRenderer,
	cfg Config,
	log *logger.Logger,
) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{
		productRepo: productRepo,
		movRepo:     movRepo,
		cache:       cache,
		renderer:    renderer,
		cfg:         cfg,
		log:         log.Component("dashboard"),
		now:         time.Now,
	}
}

// snapshot lee productos activos y todos los movimientos en paralelo.
func (uc *DashboardUseCase) snapshot(ctx context.Context) ([]*entity.Product, []*entity.Movement, error) {
	var (
		products  []*entity.Product
		movements []*entity.Movement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = uc.productRepo.List(gctx, false)
		if err != nil {
			return fmt.Errorf("dashboard: productos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		movements, err = uc.movRepo.List(gctx, repository.MovementFilter{IncludeDeleted: true})
		if err != nil {
			return fmt.Errorf("dashboard: movimientos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return products, movements, nil
}

// GetStats devuelve las estadísticas actuales. Con caché activa puede servir un valor
// de hasta CacheTTL de antigüedad.
func (uc *DashboardUseCase) GetStats(ctx context.Context, actor authz.Actor) (*dto.DashboardStatsDTO, error) {
	if err := authz.Require(actor.Role, authz.OpViewDashboard); err != nil {
		return nil, err
	}
	if cached, ok := uc.fromCache(ctx); ok {
		return cached, nil
	}
	gen := uc.gen.Load()
	products, movements, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := uc.toDTO(inventory.ComputeStats(products, movements, uc.cfg.LowStockThreshold, uc.cfg.RecentProducts))
	uc.toCache(ctx, gen, out)
	return out, nil
}

// StockReport genera el reporte PDF del inventario activo. Nunca usa la caché.
func (uc *DashboardUseCase) StockReport(ctx context.Context, actor authz.Actor) ([]byte, error) {
	if err := authz.Require(actor.Role, authz.OpViewDashboard); err != nil {
		return nil, err
	}
	if uc.renderer == nil {
		return nil, fmt.Errorf("dashboard: reporte PDF no configurado")
	}
	products, movements, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	stats := uc.toDTO(inventory.ComputeStats(products, movements, uc.cfg.LowStockThreshold, uc.cfg.RecentProducts))

	rows := make([]dto.ProductStockDTO, 0, len(products))
	for _, p := range products {
		if p.Deleted {
			continue
		}
		rows = append(rows, toProductStock(p))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	return uc.renderer.RenderStockReport(ctx, StockReport{
		Title:       "Reporte de inventario",
		GeneratedBy: actor.Name,
		GeneratedAt: stats.GeneratedAt,
		Stats:       *stats,
		Products:    rows,
	})
}

func (uc *DashboardUseCase) fromCache(ctx context.Context) (*dto.DashboardStatsDTO, bool) {
	if uc.cache == nil || uc.cfg.CacheTTL <= 0 {
		return nil, false
	}
	raw, err := uc.cache.Get(ctx, statsCacheKey)
	if err != nil {
		return nil, false
	}
	var out dto.DashboardStatsDTO
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		uc.log.Warn().Err(err).Msg("snapshot en caché ilegible, se recalcula")
		return nil, false
	}
	return &out, true
}

func (uc *DashboardUseCase) toCache(ctx context.Context, gen uint64, stats *dto.DashboardStatsDTO) {
	if uc.cache == nil || uc.cfg.CacheTTL <= 0 {
		return
	}
	if uc.gen.Load() != gen {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, statsCacheKey, string(raw), uc.cfg.CacheTTL); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo guardar el snapshot en caché")
		return
	}
	// Una invalidación entre la comprobación y el Set deja el valor viejo escrito.
	if uc.gen.Load() != gen {
		if err := uc.cache.Delete(ctx, statsCacheKey); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo descartar un snapshot obsoleto")
		}
	}
}

// Invalidate descarta el snapshot en caché, si existe. Los cálculos en curso
// iniciados antes de la invalidación ya no se escriben en la caché.
func (uc *DashboardUseCase) Invalidate(ctx context.Context) {
	if uc.cache == nil || uc.cfg.CacheTTL <= 0 {
		return
	}
	uc.gen.Add(1)
	if err := uc.cache.Delete(ctx, statsCacheKey); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché del dashboard")
	}
}

func (uc *DashboardUseCase) toDTO(st inventory.Stats) *dto.DashboardStatsDTO {
	out := &dto.DashboardStatsDTO{
		TotalProducts:       st.TotalProducts,
		TotalMovements:      st.TotalMovements,
		DeletedMovements:    st.DeletedMovements,
		TotalStock:          st.TotalStock,
		LowStockThreshold:   st.LowStockThreshold,
		LowStockCount:       st.LowStockCount,
		LowStockProducts:    make([]dto.ProductStockDTO, 0, len(st.LowStock)),
		TotalInventoryValue: st.TotalInventoryValue,
		RecentProducts:      make([]dto.ProductStockDTO, 0, len(st.RecentProducts)),
		GeneratedAt:         uc.now().UTC(),
	}
	for _, p := range st.LowStock {
		out.LowStockProducts = append(out.LowStockProducts, toProductStock(p))
	}
	for _, p := range st.RecentProducts {
		out.RecentProducts = append(out.RecentProducts, toProductStock(p))
	}
	return out
}

func toProductStock(p *entity.Product) dto.ProductStockDTO {
	return dto.ProductStockDTO{
		ID:        p.ID,
		Name:      p.Name,
		Code:      p.Code,
		Stock:     p.Stock,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
	}
}
