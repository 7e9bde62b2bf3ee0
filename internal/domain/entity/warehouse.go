package entity

import "time"

// Warehouse representa una bodega física donde se almacena inventario.
// El nombre es único; ManagerID referencia al usuario encargado.
type Warehouse struct {
	ID        string
	Name      string
	Location  string
	ManagerID string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
