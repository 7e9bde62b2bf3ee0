package repository

import (
	"time"

	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas. Create
// persiste cabecera y líneas; las líneas son inmutables.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas en orden, o nil si no existe.
	GetByID(id string) (*entity.Sale, error)
	// UpdateStatusFrom cambia el estado sólo si el actual coincide con `from`.
	// Devuelve false si la fila no estaba en `from` (ya cancelada, p.ej.).
	UpdateStatusFrom(id, from, to string, at time.Time) (bool, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
	// NextSaleNumber devuelve el siguiente consecutivo del día indicado,
	// incrementado del lado del almacén (seguro bajo concurrencia).
	NextSaleNumber(date time.Time) (string, error)
}
