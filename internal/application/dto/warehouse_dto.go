package dto

import "time"

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
	ManagerID string `json:"manager_id,omitempty"`
}

// UpdateWarehouseRequest body para PUT /api/warehouses/:id.
type UpdateWarehouseRequest struct {
	Name      string `json:"name,omitempty"`
	Location  string `json:"location,omitempty"`
	ManagerID string `json:"manager_id,omitempty"`
	Active    *bool  `json:"active,omitempty"`
}

// WarehouseResponse una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	ManagerID string    `json:"manager_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
