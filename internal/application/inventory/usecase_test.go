package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/authz"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

var (
	admin   = authz.Actor{ID: "u-admin", Name: "Admin", Role: entity.RoleAdmin}
	manager = authz.Actor{ID: "u-manager", Name: "Gerente", Role: entity.RoleManager}
	cashier = authz.Actor{ID: "u-cashier", Name: "Caja 1", Role: entity.RoleCashier}
)

type fixture struct {
	store  *memory.Store
	ledger *inventory.LedgerUseCase
}

func newFixture(t *testing.T, runner inventory.TxRunner) *fixture {
	t.Helper()
	store := memory.NewStore()
	if runner == nil {
		runner = memory.NewTxRunner(store)
	}
	return &fixture{
		store:  store,
		ledger: inventory.NewLedgerUseCase(runner, store.Movements(), inventory.RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond}, logger.Nop()),
	}
}

func (f *fixture) addProduct(t *testing.T, id, name string, stock int) {
	t.Helper()
	require.NoError(t, f.store.Products().Create(context.Background(), &entity.Product{
		ID: id, Name: name, Price: decimal.NewFromInt(1), Stock: stock, CreatedAt: time.Now(),
	}))
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func TestRegisterMovement_FinalStockFollowsClampedSequence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.addProduct(t, "p1", "Café", 2)

	steps := []struct {
		typ string
		qty int
	}{
		{entity.MovementTypeSalida, 5},  // 2 → 0
		{entity.MovementTypeEntrada, 4}, // 0 → 4
		{entity.MovementTypeSalida, 1},  // 4 → 3
		{entity.MovementTypeEntrada, 10},
		{entity.MovementTypeSalida, 20},
		{entity.MovementTypeEntrada, 6},
	}
	expected := 2
	for _, s := range steps {
		_, err := f.ledger.RegisterMovement(ctx, cashier, dto.RegisterMovementRequest{ProductID: "p1", Type: s.typ, Quantity: s.qty})
		require.NoError(t, err)
		if s.typ == entity.MovementTypeEntrada {
			expected += s.qty
		} else {
			expected = max(0, expected-s.qty)
		}
		assert.Equal(t, expected, f.stock(t, "p1"))
	}
	assert.Equal(t, 6, expected)
}

func TestRegisterMovement_SnapshotsNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.addProduct(t, "p1", "Arroz", 0)

	mov, err := f.ledger.RegisterMovement(ctx, manager, dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 3})
	require.NoError(t, err)

	p, _ := f.store.Products().GetByID(ctx, "p1")
	p.Name = "Arroz Integral"
	require.NoError(t, f.store.Products().Update(ctx, p))

	got, err := f.ledger.GetByID(ctx, cashier, mov.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arroz", got.ProductName)
	assert.Equal(t, "Gerente", got.UserName)
	assert.Equal(t, manager.ID, got.UserID)
}

func TestRegisterMovement_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.addProduct(t, "p1", "Sal", 5)

	cases := []dto.RegisterMovementRequest{
		{ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 0},
		{ProductID: "p1", Type: entity.MovementTypeSalida, Quantity: -2},
		{ProductID: "p1", Type: "AJUSTE", Quantity: 1},
		{ProductID: "", Type: entity.MovementTypeEntrada, Quantity: 1},
	}
	for _, in := range cases {
		_, err := f.ledger.RegisterMovement(ctx, admin, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
	assert.Equal(t, 5, f.stock(t, "p1"))

	all, err := f.ledger.ListAll(ctx, admin, true)
	require.NoError(t, err)
	assert.Zero(t, all.Total)
}

func TestRegisterMovement_ProductMissingOrDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.addProduct(t, "p1", "Sal", 5)

	_, err := f.ledger.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{ProductID: "nope", Type: entity.MovementTypeEntrada, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mark := entity.SoftDelete{}
	mark.MarkDeleted(admin.ID, admin.Name, time.Now())
	require.NoError(t, f.store.Products().SoftDelete(ctx, "p1", mark))

	_, err = f.ledger.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 5, f.stock(t, "p1"))
}

func TestRegisterMovement_UnknownRoleDenied(t *testing.T) {
	f := newFixture(t, nil)
	f.addProduct(t, "p1", "Sal", 5)

	_, err := f.ledger.RegisterMovement(context.Background(), authz.Actor{ID: "x", Role: "GUEST"},
		dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 5, f.stock(t, "p1"))
}

func TestRegisterMovement_EntradaQueDesbordaElStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.addProduct(t, "p1", "Sal", 5)

	_, err := f.ledger.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: math.MaxInt})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 5, f.stock(t, "p1"))

	// cantidad válida, pero el total pasaría del tope: se revierte el movimiento
	_, err = f.ledger.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: domaininv.MaxStock})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 5, f.stock(t, "p1"))

	all, err := f.ledger.ListAll(ctx, admin, true)
	require.NoError(t, err)
	assert.Zero(t, all.Total)
}

func TestSoftDeleteMovement_DoesNotTouchStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.addProduct(t, "p1", "Sal", 5)

	mov, err := f.ledger.RegisterMovement(ctx, cashier, dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeSalida, Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, 3, f.stock(t, "p1"))

	err = f.ledger.SoftDeleteMovement(ctx, cashier, mov.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.ledger.SoftDeleteMovement(ctx, manager, mov.ID))
	require.NoError(t, f.ledger.SoftDeleteMovement(ctx, admin, mov.ID), "idempotente")
	assert.Equal(t, 3, f.stock(t, "p1"))

	got, err := f.ledger.GetByID(ctx, cashier, mov.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.Equal(t, manager.ID, *got.DeletedBy)

	live, err := f.ledger.ListForProduct(ctx, cashier, "p1", false)
	require.NoError(t, err)
	assert.Zero(t, live.Total)
	withDeleted, err := f.ledger.ListForProduct(ctx, cashier, "p1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, withDeleted.Total)

	assert.ErrorIs(t, f.ledger.SoftDeleteMovement(ctx, admin, "nope"), domain.ErrNotFound)
}

// failingStockRunner envuelve el TxRunner en memoria y hace fallar UpdateStock.
type failingStockRunner struct {
	inner inventory.TxRunner
	err   error
}

type failingProductRepo struct {
	repository.ProductRepository
	err error
}

func (r failingProductRepo) UpdateStock(context.Context, string, int) error { return r.err }

func (r failingStockRunner) Run(ctx context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
	return r.inner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		return fn(movRepo, failingProductRepo{ProductRepository: productRepo, err: r.err})
	})
}

func TestRegisterMovement_AtomicWhenStockUpdateFails(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := domain.Dependency("actualizar stock", errors.New("disco lleno"))
	runner := failingStockRunner{inner: memory.NewTxRunner(store), err: boom}
	ledger := inventory.NewLedgerUseCase(runner, store.Movements(), inventory.DefaultRetryPolicy(), logger.Nop())
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Sal", Stock: 5}))

	_, err := ledger.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeSalida, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrDependency)

	p, _ := store.Products().GetByID(ctx, "p1")
	assert.Equal(t, 5, p.Stock)
	movs, _ := store.Movements().List(ctx, repository.MovementFilter{IncludeDeleted: true})
	assert.Empty(t, movs)
}

func TestRegisterMovement_ConcurrentSalidasOnSameProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.addProduct(t, "p1", "Sal", 10)

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := authz.Actor{ID: fmt.Sprintf("u%d", i), Name: fmt.Sprintf("Caja %d", i), Role: entity.RoleCashier}
			_, err := f.ledger.RegisterMovement(ctx, actor, dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeSalida, Quantity: 4})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, 0, f.stock(t, "p1"))
	list, err := f.ledger.ListForProduct(ctx, admin, "p1", true)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
}

// conflictRunner falla con domain.ErrConflict las primeras n veces.
type conflictRunner struct {
	inner inventory.TxRunner
	mu    sync.Mutex
	n     int
	calls int
}

func (r *conflictRunner) Run(ctx context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
	r.mu.Lock()
	r.calls++
	fail := r.calls <= r.n
	r.mu.Unlock()
	if fail {
		return fmt.Errorf("%w: serialization failure", domain.ErrConflict)
	}
	return r.inner.Run(ctx, fn)
}

func TestRegisterMovement_RetriesConflicts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	runner := &conflictRunner{inner: memory.NewTxRunner(store), n: 2}
	ledger := inventory.NewLedgerUseCase(runner, store.Movements(), inventory.RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond}, logger.Nop())
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Sal", Stock: 1}))

	_, err := ledger.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, runner.calls)

	p, _ := store.Products().GetByID(ctx, "p1")
	assert.Equal(t, 3, p.Stock)
}

func TestRegisterMovement_GivesUpAfterMaxRetries(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	runner := &conflictRunner{inner: memory.NewTxRunner(store), n: 100}
	ledger := inventory.NewLedgerUseCase(runner, store.Movements(), inventory.RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}, logger.Nop())
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Sal", Stock: 1}))

	_, err := ledger.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 3, runner.calls)
}

func TestRegisterMovement_CanceledDuringBackoff(t *testing.T) {
	store := memory.NewStore()
	runner := &conflictRunner{inner: memory.NewTxRunner(store), n: 100}
	ledger := inventory.NewLedgerUseCase(runner, store.Movements(), inventory.RetryPolicy{MaxRetries: 5, Backoff: time.Hour}, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := ledger.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 1})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, runner.calls)
}

func TestListAll_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.addProduct(t, "p1", "A", 0)
	f.addProduct(t, "p2", "B", 0)

	first, err := f.ledger.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 1})
	require.NoError(t, err)
	second, err := f.ledger.RegisterMovement(ctx, admin, dto.RegisterMovementRequest{ProductID: "p2", Type: entity.MovementTypeEntrada, Quantity: 1})
	require.NoError(t, err)

	all, err := f.ledger.ListAll(ctx, cashier, false)
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, second.ID, all.Items[0].ID)
	assert.Equal(t, first.ID, all.Items[1].ID)

	_, err = f.ledger.ListForProduct(ctx, cashier, "", false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
