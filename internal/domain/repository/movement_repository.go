package repository

import (
	"time"

	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del log de movimientos.
// El log es append-only: sólo Create escribe; no existen update ni delete.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
}
