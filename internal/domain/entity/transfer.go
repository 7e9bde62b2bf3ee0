package entity

import "time"

// Estados de una solicitud de traslado. PENDING es el único estado inicial;
// COMPLETED, REJECTED y CANCELLED son terminales. La aprobación ejecuta los
// dos movimientos y deja la solicitud en COMPLETED en el mismo paso atómico
// (no existe un estado "aprobado sin ejecutar" observable).
const (
	TransferStatusPENDING   = "PENDING"
	TransferStatusCOMPLETED = "COMPLETED"
	TransferStatusREJECTED  = "REJECTED"
	TransferStatusCANCELLED = "CANCELLED"
)

// TransferRequest representa una solicitud de traslado entre bodegas.
// Sólo muta por las transiciones approve/reject/cancel; nunca se borra.
type TransferRequest struct {
	ID            string
	RequestNumber string // único, generado por el almacén (secuencia)
	SourceID      string // bodega origen
	DestinationID string // bodega destino, distinta del origen
	Status        string
	Reason        string
	ReviewNote    string // comentario del revisor (rechazos)
	CreatedBy     string
	ApprovedBy    string
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Lines         []TransferLine
}

// TransferLine es una línea de una solicitud de traslado; inmutable una vez
// creada la solicitud. El orden de las líneas es el orden de ejecución.
type TransferLine struct {
	ID         string
	TransferID string
	ItemID     string
	Quantity   int64
}

// Terminal indica si el estado no admite más transiciones.
func (t *TransferRequest) Terminal() bool {
	return t.Status != TransferStatusPENDING
}
