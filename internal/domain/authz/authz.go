// Package authz es la compuerta de autorización: una tabla pura (rol, operación) → veredicto.
// No consulta almacenamiento ni tiene efectos laterales.
package authz

import (
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Operation identifica una acción sujeta a permisos.
type Operation string

// Operaciones controladas por la compuerta.
const (
	OpWriteProduct     Operation = "product.write"     // crear / editar producto
	OpDeleteProduct    Operation = "product.delete"    // borrado lógico de producto
	OpRegisterMovement Operation = "movement.register" // entrada / salida
	OpDeleteMovement   Operation = "movement.delete"   // borrado lógico de movimiento
	OpReadCatalog      Operation = "catalog.read"      // listar / ver productos y movimientos
	OpViewDashboard    Operation = "dashboard.view"
	OpManageUsers      Operation = "users.manage" // cambio de rol, alta con rol, borrado
)

// Decision resultado de Authorize.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

var matrix = map[Operation]map[string]bool{
	OpWriteProduct:     {entity.RoleAdmin: true, entity.RoleManager: true},
	OpDeleteProduct:    {entity.RoleAdmin: true},
	OpRegisterMovement: {entity.RoleAdmin: true, entity.RoleManager: true, entity.RoleCashier: true},
	OpDeleteMovement:   {entity.RoleAdmin: true, entity.RoleManager: true},
	OpReadCatalog:      {entity.RoleAdmin: true, entity.RoleManager: true, entity.RoleCashier: true},
	OpViewDashboard:    {entity.RoleAdmin: true, entity.RoleManager: true, entity.RoleCashier: true},
	OpManageUsers:      {entity.RoleAdmin: true},
}

// Operations devuelve todas las operaciones conocidas.
func Operations() []Operation {
	return []Operation{
		OpWriteProduct, OpDeleteProduct, OpRegisterMovement, OpDeleteMovement,
		OpReadCatalog, OpViewDashboard, OpManageUsers,
	}
}

// Authorize decide si role puede ejecutar op. Rol u operación desconocidos → Deny.
func Authorize(role string, op Operation) Decision {
	roles, ok := matrix[op]
	if !ok {
		return Deny
	}
	return Decision(roles[role])
}

// Require es Authorize para casos de uso: devuelve domain.ErrForbidden al denegar.
func Require(role string, op Operation) error {
	if Authorize(role, op) == Deny {
		return fmt.Errorf("%w: rol %q no puede ejecutar %s", domain.ErrForbidden, role, op)
	}
	return nil
}

// Actor es la identidad autenticada que ejecuta una operación.
// Name se copia en los registros que guardan snapshot del usuario.
type Actor struct {
	ID   string
	Name string
	Role string
}

// Can atajo de Authorize para el actor.
func (a Actor) Can(op Operation) bool {
	return Authorize(a.Role, op) == Allow
}
