package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/authz"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

var cashier = authz.Actor{ID: "u1", Name: "Caja", Role: entity.RoleCashier}

type mapCache struct {
	data    map[string]string
	failSet bool
	gets    int
}

func newMapCache() *mapCache { return &mapCache{data: map[string]string{}} }

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return "", errors.New("miss")
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if c.failSet {
		return errors.New("redis caído")
	}
	c.data[key] = value.(string)
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

type fakeRenderer struct {
	got StockReport
}

func (r *fakeRenderer) RenderStockReport(_ context.Context, rep StockReport) ([]byte, error) {
	r.got = rep
	return []byte("%PDF-fake"), nil
}

func seed(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	products := []*entity.Product{
		{ID: "a", Name: "Arroz", Price: decimal.NewFromInt(2), Stock: 10, CreatedAt: base},
		{ID: "b", Name: "Frijol", Price: decimal.NewFromInt(5), Stock: 2, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Name: "Borrado", Price: decimal.NewFromInt(100), Stock: 1, CreatedAt: base.Add(2 * time.Hour),
			SoftDelete: entity.SoftDelete{Deleted: true}},
	}
	for _, p := range products {
		require.NoError(t, s.Products().Create(ctx, p))
	}
	require.NoError(t, s.Movements().Create(ctx, &entity.Movement{ID: "m1", ProductID: "a", Quantity: 1, Type: entity.MovementTypeEntrada, CreatedAt: base}))
	require.NoError(t, s.Movements().Create(ctx, &entity.Movement{ID: "m2", ProductID: "b", Quantity: 1, Type: entity.MovementTypeSalida, CreatedAt: base,
		SoftDelete: entity.SoftDelete{Deleted: true}}))
}

func TestGetStats_InventoryValue(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	uc := NewDashboardUseCase(s.Products(), s.Movements(), nil, nil, Config{LowStockThreshold: 5, RecentProducts: 5}, logger.Nop())

	st, err := uc.GetStats(context.Background(), cashier)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(st.TotalInventoryValue))
	assert.Equal(t, 2, st.TotalProducts)
	assert.Equal(t, 12, st.TotalStock)
	assert.Equal(t, 2, st.TotalMovements)
	assert.Equal(t, 1, st.DeletedMovements)
	assert.Equal(t, 1, st.LowStockCount)
	assert.Equal(t, "b", st.LowStockProducts[0].ID)
	require.Len(t, st.RecentProducts, 2)
	assert.Equal(t, "b", st.RecentProducts[0].ID)
}

func TestGetStats_DeniedForUnknownRole(t *testing.T) {
	s := memory.NewStore()
	uc := NewDashboardUseCase(s.Products(), s.Movements(), nil, nil, Config{}, nil)

	_, err := uc.GetStats(context.Background(), authz.Actor{ID: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetStats_UsesCache(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s)
	cache := newMapCache()
	uc := NewDashboardUseCase(s.Products(), s.Movements(), cache, nil, Config{LowStockThreshold: 5, RecentProducts: 5, CacheTTL: time.Minute}, logger.Nop())

	first, err := uc.GetStats(ctx, cashier)
	require.NoError(t, err)
	require.Contains(t, cache.data, statsCacheKey)

	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "d", Name: "Nuevo", Price: decimal.NewFromInt(1), Stock: 1}))
	cached, err := uc.GetStats(ctx, cashier)
	require.NoError(t, err)
	assert.Equal(t, first.TotalProducts, cached.TotalProducts)
	assert.True(t, first.TotalInventoryValue.Equal(cached.TotalInventoryValue))

	uc.Invalidate(ctx)
	fresh, err := uc.GetStats(ctx, cashier)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.TotalProducts)
}

// invalidatingRepo dispara una invalidación mientras el dashboard lee el catálogo,
// como haría una escritura concurrente.
type invalidatingRepo struct {
	repository.ProductRepository
	onList func(ctx context.Context)
}

func (r invalidatingRepo) List(ctx context.Context, includeDeleted bool) ([]*entity.Product, error) {
	out, err := r.ProductRepository.List(ctx, includeDeleted)
	r.onList(ctx)
	return out, err
}

// setHookCache ejecuta onSet justo después de guardar un valor.
type setHookCache struct {
	*mapCache
	onSet func(ctx context.Context)
}

func (c setHookCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := c.mapCache.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	if c.onSet != nil {
		c.onSet(ctx)
	}
	return nil
}

func TestGetStats_InvalidacionDuranteElCalculoNoDejaCacheVieja(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s)
	cache := newMapCache()
	cfg := Config{LowStockThreshold: 5, RecentProducts: 5, CacheTTL: time.Minute}

	var uc *DashboardUseCase
	repo := invalidatingRepo{ProductRepository: s.Products(), onList: func(ctx context.Context) { uc.Invalidate(ctx) }}
	uc = NewDashboardUseCase(repo, s.Movements(), cache, nil, cfg, logger.Nop())

	st, err := uc.GetStats(ctx, cashier)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalProducts)
	assert.NotContains(t, cache.data, statsCacheKey)
}

func TestGetStats_InvalidacionJustoTrasGuardarDescartaElValor(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s)
	inner := newMapCache()
	cfg := Config{LowStockThreshold: 5, RecentProducts: 5, CacheTTL: time.Minute}

	var uc *DashboardUseCase
	fired := false
	cache := setHookCache{mapCache: inner, onSet: func(context.Context) {
		if fired {
			return
		}
		fired = true
		// Solo avanza la generación; el Delete de Invalidate llegaría tarde.
		uc.gen.Add(1)
	}}
	uc = NewDashboardUseCase(s.Products(), s.Movements(), cache, nil, cfg, logger.Nop())

	_, err := uc.GetStats(ctx, cashier)
	require.NoError(t, err)
	assert.True(t, fired)
	assert.NotContains(t, inner.data, statsCacheKey)

	_, err = uc.GetStats(ctx, cashier)
	require.NoError(t, err)
	assert.Contains(t, inner.data, statsCacheKey)
}

func TestGetStats_CacheFailureIgnored(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	cache := newMapCache()
	cache.failSet = true
	uc := NewDashboardUseCase(s.Products(), s.Movements(), cache, nil, Config{LowStockThreshold: 5, CacheTTL: time.Minute}, logger.Nop())

	st, err := uc.GetStats(context.Background(), cashier)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalProducts)
}

func TestGetStats_CacheDisabledWithZeroTTL(t *testing.T) {
	s := memory.NewStore()
	cache := newMapCache()
	uc := NewDashboardUseCase(s.Products(), s.Movements(), cache, nil, Config{}, logger.Nop())

	_, err := uc.GetStats(context.Background(), cashier)
	require.NoError(t, err)
	assert.Zero(t, cache.gets)
	assert.Empty(t, cache.data)
}

func TestStockReport(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	r := &fakeRenderer{}
	uc := NewDashboardUseCase(s.Products(), s.Movements(), nil, r, Config{LowStockThreshold: 5}, logger.Nop())

	out, err := uc.StockReport(context.Background(), cashier)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), out)
	require.Len(t, r.got.Products, 2)
	assert.Equal(t, "Arroz", r.got.Products[0].Name)
	assert.Equal(t, "Caja", r.got.GeneratedBy)
	assert.Equal(t, 1, r.got.Stats.LowStockCount)
}
