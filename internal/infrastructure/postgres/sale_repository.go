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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL
// (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta y sus líneas.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (id, sale_number, warehouse_id, subtotal, tax_total, grand_total, payment_method, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.SaleNumber, sale.WarehouseID,
		sale.Subtotal, sale.TaxTotal, sale.GrandTotal,
		sale.PaymentMethod, sale.Status, sale.CreatedBy, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}

	lineQuery := `
		INSERT INTO sale_lines (id, sale_id, line_no, item_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range sale.Lines {
		line := &sale.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.SaleID = sale.ID
		if _, err := r.q.Exec(ctx, lineQuery, line.ID, sale.ID, i+1, line.ItemID, line.Quantity, line.UnitPrice, line.LineTotal); err != nil {
			return fmt.Errorf("create sale line %d: %w", i+1, err)
		}
	}
	return nil
}

// GetByID devuelve la venta con sus líneas en orden, o nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	ctx := context.Background()
	query := `
		SELECT id, sale_number, warehouse_id, subtotal, tax_total, grand_total, payment_method, status, created_by, created_at, updated_at
		FROM sales WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	lines, err := r.linesBySale(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return s, nil
}

// UpdateStatusFrom cambia el estado sólo si el actual coincide con `from`.
// Devuelve false si ninguna fila calificó (venta ya cancelada, p.ej.).
func (r *SaleRepo) UpdateStatusFrom(id, from, to string, at time.Time) (bool, error) {
	query := `UPDATE sales SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(context.Background(), query, id, from, to, at)
	if err != nil {
		return false, fmt.Errorf("update sale status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByWarehouse lista ventas de una bodega en un rango de fechas.
func (r *SaleRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	ctx := context.Background()
	query := `
		SELECT id, sale_number, warehouse_id, subtotal, tax_total, grand_total, payment_method, status, created_by, created_at, updated_at
		FROM sales WHERE warehouse_id = $1`
	args := []any{warehouseID}
	query, args = appendDateRange(query, args, from, to)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		lines, err := r.linesBySale(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Lines = lines
	}
	return list, nil
}

// NextSaleNumber incrementa el contador diario del lado del almacén y arma el
// consecutivo POS-AAAAMMDD-NNNN. El upsert con RETURNING es atómico.
func (r *SaleRepo) NextSaleNumber(date time.Time) (string, error) {
	day := date.Format("2006-01-02")
	query := `
		INSERT INTO sale_counters (day, seq) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET seq = sale_counters.seq + 1
		RETURNING seq`
	var seq int64
	if err := r.q.QueryRow(context.Background(), query, day).Scan(&seq); err != nil {
		return "", fmt.Errorf("next sale number: %w", err)
	}
	return fmt.Sprintf("POS-%s-%04d", date.Format("20060102"), seq), nil
}

func (r *SaleRepo) linesBySale(ctx context.Context, saleID string) ([]entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, item_id, quantity, unit_price, line_total
		FROM sale_lines WHERE sale_id = $1
		ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ItemID, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.SaleNumber, &s.WarehouseID,
		&s.Subtotal, &s.TaxTotal, &s.GrandTotal,
		&s.PaymentMethod, &s.Status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
