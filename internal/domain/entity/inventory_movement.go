package entity

import "time"

// Tipos de movimiento de inventario. Inmutables tras la creación.
const (
	MovementTypeEntrada = "ENTRADA" // aumenta stock
	MovementTypeSalida  = "SALIDA"  // disminuye stock
)

// IsValidMovementType indica si t es ENTRADA o SALIDA.
func IsValidMovementType(t string) bool {
	return t == MovementTypeEntrada || t == MovementTypeSalida
}

// Movement representa un asiento del libro de movimientos.
// ProductName y UserName son copias tomadas al crear el movimiento y pueden
// diferir del registro vivo de Product/User.
type Movement struct {
	ID          string
	ProductID   string
	ProductName string
	Quantity    int // siempre > 0; el signo lo da Type
	Type        string
	CreatedAt   time.Time
	UserID      string
	UserName    string

	SoftDelete
}

// Delta devuelve el efecto con signo sobre el stock: +Quantity en ENTRADA, -Quantity en SALIDA.
func (m *Movement) Delta() int {
	if m.Type == MovementTypeSalida {
		return -m.Quantity
	}
	return m.Quantity
}
