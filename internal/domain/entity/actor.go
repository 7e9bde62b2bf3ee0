package entity

// Actor identifica al usuario autenticado que invoca una operación.
// La capa HTTP ya validó el token; los casos de uso re-validan las reglas
// de alcance propias del dominio (ej. staff limitado a su bodega).
type Actor struct {
	UserID      string
	Role        string
	WarehouseID string // bodega asignada (vacío para admin)
}

// CanManageStock indica si el rol puede registrar movimientos directos
// (asignaciones, ajustes, retiros).
func (a Actor) CanManageStock() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}

// CanApproveTransfers indica si el rol puede aprobar o rechazar traslados.
func (a Actor) CanApproveTransfers() bool {
	return a.Role == RoleAdmin
}

// IsAdmin indica si el actor es administrador.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// ScopedToWarehouse indica si el actor sólo puede operar sobre su bodega
// asignada. Aplica a manager (traslados desde su bodega) y staff (ventas).
func (a Actor) ScopedToWarehouse() bool {
	return a.Role == RoleManager || a.Role == RoleStaff
}
