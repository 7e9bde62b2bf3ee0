package entity

import "time"

// Roles válidos para User (enumeración cerrada).
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User representa un usuario del sistema. Manager y staff quedan asignados
// a una bodega (WarehouseID); admin no tiene bodega asignada.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, manager, staff
	WarehouseID  string // bodega asignada (vacío para admin)
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si el rol pertenece a la enumeración cerrada.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleStaff
}
