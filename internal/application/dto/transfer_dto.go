package dto

import "time"

// TransferLineRequest línea solicitada en un traslado.
type TransferLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"` // > 0
}

// CreateTransferRequest body para POST /api/transfers.
// SourceID puede omitirse para managers (se usa su bodega asignada).
type CreateTransferRequest struct {
	SourceID      string                `json:"source_warehouse_id,omitempty"`
	DestinationID string                `json:"destination_warehouse_id"`
	Reason        string                `json:"reason,omitempty"`
	Lines         []TransferLineRequest `json:"lines"`
}

// RejectTransferRequest body para POST /api/transfers/:id/reject.
type RejectTransferRequest struct {
	Note string `json:"note,omitempty"`
}

// TransferLineResponse línea de un traslado.
type TransferLineResponse struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// TransferResponse una solicitud de traslado con sus líneas.
type TransferResponse struct {
	ID            string                 `json:"id"`
	RequestNumber string                 `json:"request_number"`
	SourceID      string                 `json:"source_warehouse_id"`
	DestinationID string                 `json:"destination_warehouse_id"`
	Status        string                 `json:"status"`
	Reason        string                 `json:"reason,omitempty"`
	ReviewNote    string                 `json:"review_note,omitempty"`
	CreatedBy     string                 `json:"created_by"`
	ApprovedBy    string                 `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time             `json:"approved_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	Lines         []TransferLineResponse `json:"lines"`
}
