package inventory

import (
	"math"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// MaxStock tope del contador de stock y de la cantidad de un movimiento.
// Coincide con la columna INTEGER de PostgreSQL.
const MaxStock = math.MaxInt32

// ApplyDelta implementa la regla de stock del libro (servicio de dominio).
// Entradas suman sin piso; salidas restan con piso en cero:
// NuevoStock = max(0, StockActual + delta).
// Una salida mayor al stock disponible se absorbe en silencio, no es error.
// Una entrada que supere MaxStock se rechaza con domain.ErrInvalidInput.
func ApplyDelta(current, delta int) (int, error) {
	if delta > 0 && current > MaxStock-delta {
		return current, domain.Invalid("el stock resultante supera el máximo de %d", MaxStock)
	}
	next := current + delta
	if delta < 0 && next < 0 {
		return 0, nil
	}
	return next, nil
}
