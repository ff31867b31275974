package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

func product(id string, price string, stock int, created time.Time) *entity.Product {
	return &entity.Product{ID: id, Name: id, Price: decimal.RequireFromString(price), Stock: stock, CreatedAt: created}
}

func TestComputeStats(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := product("a", "2", 10, base)
	b := product("b", "5", 2, base.Add(time.Hour))
	deleted := product("c", "100", 1, base.Add(2*time.Hour))
	deleted.Deleted = true

	movs := []*entity.Movement{
		{ID: "m1", ProductID: "a"},
		{ID: "m2", ProductID: "b"},
		{ID: "m3", ProductID: "b", SoftDelete: entity.SoftDelete{Deleted: true}},
	}

	st := ComputeStats([]*entity.Product{a, b, deleted}, movs, 5, 1)

	assert.Equal(t, 2, st.TotalProducts)
	assert.Equal(t, 12, st.TotalStock)
	assert.True(t, decimal.NewFromInt(30).Equal(st.TotalInventoryValue), "2*10 + 5*2 = 30, got %s", st.TotalInventoryValue)
	assert.Equal(t, 3, st.TotalMovements)
	assert.Equal(t, 1, st.DeletedMovements)
	assert.Equal(t, 1, st.LowStockCount)
	assert.Equal(t, "b", st.LowStock[0].ID)
	assert.Len(t, st.RecentProducts, 1)
	assert.Equal(t, "b", st.RecentProducts[0].ID)
}

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(nil, nil, 5, 5)

	assert.Zero(t, st.TotalProducts)
	assert.True(t, st.TotalInventoryValue.IsZero())
	assert.NotNil(t, st.LowStock)
	assert.NotNil(t, st.RecentProducts)
}

func TestComputeStats_LowStockSortedAscending(t *testing.T) {
	now := time.Now()
	ps := []*entity.Product{
		product("x", "1", 4, now),
		product("y", "1", 0, now),
		product("z", "1", 2, now),
		product("w", "1", 50, now),
	}

	st := ComputeStats(ps, nil, 5, 0)

	ids := make([]string, 0, len(st.LowStock))
	for _, p := range st.LowStock {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"y", "z", "x"}, ids)
	assert.Empty(t, st.RecentProducts)
}
