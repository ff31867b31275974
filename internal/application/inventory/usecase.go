package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/authz"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// LedgerUseCase libro de movimientos. Registrar un movimiento y ajustar el stock del
// producto ocurren en la misma transacción, con la fila del producto bloqueada.
type LedgerUseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	retry    RetryPolicy
	log      *logger.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. movRepo se usa solo para lecturas
// y borrados lógicos fuera de transacción.
func NewLedgerUseCase(txRunner TxRunner, movRepo repository.MovementRepository, retry RetryPolicy, log *logger.Logger) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner: txRunner,
		movRepo:  movRepo,
		retry:    retry,
		log:      log.Component("ledger"),
		now:      time.Now,
	}
}

// RegisterMovement registra una ENTRADA o SALIDA:
//  1. bloquea el producto (SELECT FOR UPDATE)
//  2. copia el nombre del producto y del actor en el movimiento
//  3. inserta el movimiento
//  4. aplica ApplyDelta sobre el stock bloqueado y lo guarda
//
// Cualquier fallo revierte todo. Una SALIDA mayor al stock deja el stock en 0 sin error.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, actor authz.Actor, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if err := authz.Require(actor.Role, authz.OpRegisterMovement); err != nil {
		return nil, err
	}
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id es obligatorio")
	}
	if !entity.IsValidMovementType(in.Type) {
		return nil, domain.Invalid("tipo de movimiento inválido %q (ENTRADA|SALIDA)", in.Type)
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("la cantidad debe ser mayor que cero")
	}
	if in.Quantity > inventory.MaxStock {
		return nil, domain.Invalid("la cantidad no puede superar %d", inventory.MaxStock)
	}

	var (
		created   *entity.Movement
		prevStock int
	)
	err := withRetry(ctx, uc.retry, uc.log, "registrar movimiento", func() error {
		return uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
			product, err := productRepo.GetForUpdate(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if product == nil || product.Deleted {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
			}
			mov := &entity.Movement{
				ID:          uuid.New().String(),
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    in.Quantity,
				Type:        in.Type,
				CreatedAt:   uc.now().UTC(),
				UserID:      actor.ID,
				UserName:    actor.Name,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
			newStock, err := inventory.ApplyDelta(product.Stock, mov.Delta())
			if err != nil {
				return err
			}
			if err := productRepo.UpdateStock(ctx, product.ID, newStock); err != nil {
				return err
			}
			created, prevStock = mov, product.Stock
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if created.Type == entity.MovementTypeSalida && created.Quantity > prevStock {
		uc.log.Info().Str("product_id", created.ProductID).Int("stock", prevStock).
			Int("quantity", created.Quantity).Msg("salida mayor al stock, queda en cero")
	}
	return toMovementResponse(created), nil
}

// SoftDeleteMovement marca el movimiento como borrado. El stock no se revierte.
func (uc *LedgerUseCase) SoftDeleteMovement(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor.Role, authz.OpDeleteMovement); err != nil {
		return err
	}
	mov, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if mov == nil {
		return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	if !mov.MarkDeleted(actor.ID, actor.Name, uc.now().UTC()) {
		return nil
	}
	return uc.movRepo.SoftDelete(ctx, id, mov.SoftDelete)
}

// GetByID obtiene un movimiento, borrado o no.
func (uc *LedgerUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.MovementResponse, error) {
	if err := authz.Require(actor.Role, authz.OpReadCatalog); err != nil {
		return nil, err
	}
	mov, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return toMovementResponse(mov), nil
}

// ListForProduct movimientos de un producto, más reciente primero.
func (uc *LedgerUseCase) ListForProduct(ctx context.Context, actor authz.Actor, productID string, includeDeleted bool) (*dto.MovementListResponse, error) {
	if productID == "" {
		return nil, domain.Invalid("product_id es obligatorio")
	}
	return uc.list(ctx, actor, repository.MovementFilter{ProductID: productID, IncludeDeleted: includeDeleted})
}

// ListAll todos los movimientos, más reciente primero.
func (uc *LedgerUseCase) ListAll(ctx context.Context, actor authz.Actor, includeDeleted bool) (*dto.MovementListResponse, error) {
	return uc.list(ctx, actor, repository.MovementFilter{IncludeDeleted: includeDeleted})
}

func (uc *LedgerUseCase) list(ctx context.Context, actor authz.Actor, f repository.MovementFilter) (*dto.MovementListResponse, error) {
	if err := authz.Require(actor.Role, authz.OpReadCatalog); err != nil {
		return nil, err
	}
	movs, err := uc.movRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Total: len(items)}, nil
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		ProductName:    m.ProductName,
		Quantity:       m.Quantity,
		Type:           m.Type,
		CreatedAt:      m.CreatedAt,
		UserID:         m.UserID,
		UserName:       m.UserName,
		SoftDeleteInfo: dto.FromSoftDelete(m.SoftDelete),
	}
}
