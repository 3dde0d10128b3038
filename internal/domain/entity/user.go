package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleRecepcion = "recepcion"
	RoleTecnico   = "tecnico"
)

// User representa un empleado del taller con acceso al sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, recepcion, tecnico
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
