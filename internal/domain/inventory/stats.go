package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Stats resumen del inventario. Se recalcula bajo demanda; nunca se persiste.
type Stats struct {
	TotalProducts       int
	TotalMovements      int
	DeletedMovements    int
	TotalStock          int
	LowStockThreshold   int
	LowStockCount       int
	LowStock            []*entity.Product
	TotalInventoryValue decimal.Decimal
	RecentProducts      []*entity.Product
}

// ComputeStats es una función pura sobre el catálogo y el libro actuales.
// Los productos borrados se ignoran. TotalMovements incluye los movimientos borrados;
// DeletedMovements los cuenta por separado.
// LowStock se ordena por stock ascendente y RecentProducts por creación descendente
// (máximo recent elementos).
func ComputeStats(products []*entity.Product, movements []*entity.Movement, threshold, recent int) Stats {
	st := Stats{
		LowStockThreshold:   threshold,
		TotalInventoryValue: decimal.Zero,
		LowStock:            []*entity.Product{},
		RecentProducts:      []*entity.Product{},
	}

	active := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if p == nil || p.Deleted {
			continue
		}
		active = append(active, p)
		st.TotalStock += p.Stock
		st.TotalInventoryValue = st.TotalInventoryValue.Add(p.InventoryValue())
		if p.Stock <= threshold {
			st.LowStock = append(st.LowStock, p)
		}
	}
	st.TotalProducts = len(active)
	st.LowStockCount = len(st.LowStock)
	sort.SliceStable(st.LowStock, func(i, j int) bool { return st.LowStock[i].Stock < st.LowStock[j].Stock })

	for _, m := range movements {
		if m == nil {
			continue
		}
		st.TotalMovements++
		if m.Deleted {
			st.DeletedMovements++
		}
	}

	if recent > 0 {
		byDate := make([]*entity.Product, len(active))
		copy(byDate, active)
		sort.SliceStable(byDate, func(i, j int) bool { return byDate[i].CreatedAt.After(byDate[j].CreatedAt) })
		if len(byDate) > recent {
			byDate = byDate[:recent]
		}
		st.RecentProducts = byDate
	}
	return st
}
