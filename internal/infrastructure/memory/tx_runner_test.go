package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

func seedProduct(t *testing.T, s *Store, id string, stock int) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID: id, Name: id, Price: decimal.NewFromInt(1), Stock: stock, CreatedAt: time.Now(),
	}))
}

func TestTxRunner_CommitAppliesWriteSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p1", 5)

	err := NewTxRunner(s).Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		p, err := productRepo.GetForUpdate(ctx, "p1")
		require.NoError(t, err)
		require.NoError(t, movRepo.Create(ctx, &entity.Movement{ID: "m1", ProductID: "p1", Quantity: 2, Type: entity.MovementTypeEntrada}))
		require.NoError(t, productRepo.UpdateStock(ctx, "p1", p.Stock+2))

		inTx, _ := productRepo.GetByID(ctx, "p1")
		assert.Equal(t, 7, inTx.Stock, "la tx ve sus propias escrituras")
		outside, _ := s.Products().GetByID(ctx, "p1")
		assert.Equal(t, 5, outside.Stock, "fuera de la tx no se ve nada hasta el commit")
		return nil
	})
	require.NoError(t, err)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 7, p.Stock)
	m, _ := s.Movements().GetByID(ctx, "m1")
	assert.NotNil(t, m)
}

func TestTxRunner_ErrorDiscardsWriteSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p1", 5)
	boom := errors.New("boom")

	err := NewTxRunner(s).Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		_, _ = productRepo.GetForUpdate(ctx, "p1")
		_ = movRepo.Create(ctx, &entity.Movement{ID: "m1", ProductID: "p1", Quantity: 2, Type: entity.MovementTypeSalida})
		_ = productRepo.UpdateStock(ctx, "p1", 3)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 5, p.Stock)
	m, _ := s.Movements().GetByID(ctx, "m1")
	assert.Nil(t, m)
}

func TestTxRunner_SerializesSameProduct(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p1", 0)
	runner := NewTxRunner(s)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = runner.Run(ctx, func(_ repository.MovementRepository, productRepo repository.ProductRepository) error {
				p, err := productRepo.GetForUpdate(ctx, "p1")
				if err != nil {
					return err
				}
				return productRepo.UpdateStock(ctx, "p1", p.Stock+1)
			})
		}()
	}
	wg.Wait()

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 50, p.Stock)
}

func TestTxRunner_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewTxRunner(NewStore()).Run(ctx, func(repository.MovementRepository, repository.ProductRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
