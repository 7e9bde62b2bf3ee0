package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL
// (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste la solicitud y sus líneas. El orden de las líneas se
// conserva con line_no.
func (r *TransferRepo) Create(transfer *entity.TransferRequest) error {
	ctx := context.Background()
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO transfer_requests (id, request_number, source_warehouse_id, destination_warehouse_id, status, reason, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		transfer.ID, transfer.RequestNumber, transfer.SourceID, transfer.DestinationID,
		transfer.Status, transfer.Reason, transfer.CreatedBy, transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transfer request: %w", err)
	}

	lineQuery := `
		INSERT INTO transfer_lines (id, transfer_id, line_no, item_id, quantity)
		VALUES ($1, $2, $3, $4, $5)`
	for i := range transfer.Lines {
		line := &transfer.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.TransferID = transfer.ID
		if _, err := r.q.Exec(ctx, lineQuery, line.ID, transfer.ID, i+1, line.ItemID, line.Quantity); err != nil {
			return fmt.Errorf("create transfer line %d: %w", i+1, err)
		}
	}
	return nil
}

// GetByID devuelve la solicitud con sus líneas en orden, o nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.TransferRequest, error) {
	ctx := context.Background()
	query := `
		SELECT id, request_number, source_warehouse_id, destination_warehouse_id, status,
		       reason, review_note, created_by, approved_by, approved_at, created_at, updated_at
		FROM transfer_requests WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer request: %w", err)
	}
	lines, err := r.linesByTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Lines = lines
	return t, nil
}

// UpdateStatusFrom cambia el estado sólo si el actual coincide con `from`
// (compare-and-set a nivel de fila). Devuelve false si ninguna fila calificó.
// approved_by/approved_at registran la decisión del revisor, así que sólo se
// escriben al aprobar o rechazar; una cancelación no tiene revisor.
func (r *TransferRepo) UpdateStatusFrom(id, from, to, actorID, note string, at time.Time) (bool, error) {
	var reviewer *string
	var reviewedAt *time.Time
	if to == entity.TransferStatusCOMPLETED || to == entity.TransferStatusREJECTED {
		reviewer = &actorID
		reviewedAt = &at
	}
	query := `
		UPDATE transfer_requests
		SET status = $3,
		    approved_by = $4,
		    approved_at = $5,
		    review_note = NULLIF($6, ''),
		    updated_at = $7
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(context.Background(), query, id, from, to, reviewer, reviewedAt, note, at)
	if err != nil {
		return false, fmt.Errorf("update transfer status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List lista solicitudes filtradas por estado y/o bodega (origen o destino).
func (r *TransferRepo) List(status, warehouseID string, limit, offset int) ([]*entity.TransferRequest, error) {
	ctx := context.Background()
	query := `
		SELECT id, request_number, source_warehouse_id, destination_warehouse_id, status,
		       reason, review_note, created_by, approved_by, approved_at, created_at, updated_at
		FROM transfer_requests WHERE 1=1`
	var args []any
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if warehouseID != "" {
		args = append(args, warehouseID)
		query += fmt.Sprintf(" AND (source_warehouse_id = $%d OR destination_warehouse_id = $%d)", len(args), len(args))
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfer requests: %w", err)
	}
	defer rows.Close()

	var list []*entity.TransferRequest
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer request: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		lines, err := r.linesByTransfer(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.Lines = lines
	}
	return list, nil
}

// NextRequestNumber toma el siguiente valor de la secuencia del almacén.
func (r *TransferRepo) NextRequestNumber() (string, error) {
	var seq int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('transfer_request_seq')`).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("next transfer request number: %w", err)
	}
	return fmt.Sprintf("TR-%06d", seq), nil
}

func (r *TransferRepo) linesByTransfer(ctx context.Context, transferID string) ([]entity.TransferLine, error) {
	query := `
		SELECT id, transfer_id, item_id, quantity
		FROM transfer_lines WHERE transfer_id = $1
		ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.TransferLine
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ID, &l.TransferID, &l.ItemID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.TransferRequest, error) {
	var t entity.TransferRequest
	var reviewNote, approvedBy *string
	if err := row.Scan(&t.ID, &t.RequestNumber, &t.SourceID, &t.DestinationID, &t.Status,
		&t.Reason, &reviewNote, &t.CreatedBy, &approvedBy, &t.ApprovedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if reviewNote != nil {
		t.ReviewNote = *reviewNote
	}
	if approvedBy != nil {
		t.ApprovedBy = *approvedBy
	}
	return &t, nil
}
