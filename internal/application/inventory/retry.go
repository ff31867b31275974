package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// RetryPolicy reintentos ante domain.ErrConflict. MaxRetries=0 desactiva los reintentos.
// El backoff se duplica en cada intento.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// DefaultRetryPolicy 3 reintentos empezando en 25ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, Backoff: 25 * time.Millisecond}
}

// withRetry ejecuta fn y la repite mientras falle por conflicto.
// Errores de validación, permisos o dependencias se devuelven sin reintentar.
func withRetry(ctx context.Context, p RetryPolicy, log *logger.Logger, op string, fn func() error) error {
	backoff := p.Backoff
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !errors.Is(err, domain.ErrConflict) || attempt >= p.MaxRetries {
			return err
		}
		log.Warn().Err(err).Str("op", op).Int("attempt", attempt+1).Dur("backoff", backoff).
			Msg("conflicto de concurrencia, reintentando")
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
}
