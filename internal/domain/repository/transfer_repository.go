package repository

import (
	"time"

	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia para solicitudes de
// traslado. Create persiste cabecera y líneas; las líneas son inmutables.
type TransferRepository interface {
	Create(transfer *entity.TransferRequest) error
	// GetByID devuelve la solicitud con sus líneas en orden, o nil si no existe.
	GetByID(id string) (*entity.TransferRequest, error)
	// UpdateStatusFrom cambia el estado sólo si el actual coincide con `from`
	// (guarda contra transiciones concurrentes). Devuelve false si la fila no
	// estaba en `from`. note es el comentario opcional del revisor (rechazos).
	UpdateStatusFrom(id, from, to, actorID, note string, at time.Time) (bool, error)
	List(status, warehouseID string, limit, offset int) ([]*entity.TransferRequest, error)
	// NextRequestNumber devuelve el siguiente consecutivo de la secuencia del
	// almacén (monotónico, seguro bajo concurrencia).
	NextRequestNumber() (string, error)
}
