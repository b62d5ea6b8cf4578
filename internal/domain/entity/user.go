package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleCosteo  = "costeo" // mantiene contenedores, lotes, gastos y tasas
	RoleVentas  = "ventas" // distribuye y confirma ventas
	RoleLectura = "lectura"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsRole indica si role es un rol conocido.
func IsRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCosteo, RoleVentas, RoleLectura:
		return true
	}
	return false
}
