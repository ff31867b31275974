package entity

import "time"

// Roles válidos para User. Se persisten tal cual en la columna role.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleCashier = "CASHIER"
)

// IsValidRole indica si r es uno de los tres roles enumerados.
func IsValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

// User representa un usuario del directorio de identidad.
type User struct {
	ID              string
	Email           string
	PasswordHash    string // bcrypt hash, nunca plano en dominio después de persistir
	Name            string
	Role            string // ADMIN, MANAGER, CASHIER
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
