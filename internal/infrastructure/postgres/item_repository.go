package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un ítem nuevo. SKU duplicado -> ErrDuplicate.
func (r *ItemRepo) Create(item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO items (id, sku, name, description, category_id, unit_measure, min_stock, purchase_price, selling_price, tax_rate, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, item.Description, nullIfEmpty(item.CategoryID),
		item.UnitMeasure, item.MinStock, item.PurchasePrice, item.SellingPrice, item.TaxRate,
		item.Active, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID, o nil si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.getBy("id", id)
}

// GetBySKU obtiene un ítem por SKU, o nil si no existe.
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	return r.getBy("sku", sku)
}

func (r *ItemRepo) getBy(column, value string) (*entity.Item, error) {
	query := fmt.Sprintf(`
		SELECT id, sku, name, description, category_id, unit_measure, min_stock, purchase_price, selling_price, tax_rate, active, created_at, updated_at
		FROM items WHERE %s = $1`, column)
	i, err := scanItem(r.q.QueryRow(context.Background(), query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return i, nil
}

// Update actualiza los campos mutables del ítem (el SKU no cambia).
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items
		SET name = $2, description = $3, category_id = $4, unit_measure = $5,
		    min_stock = $6, purchase_price = $7, selling_price = $8, tax_rate = $9,
		    active = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, nullIfEmpty(item.CategoryID),
		item.UnitMeasure, item.MinStock, item.PurchasePrice, item.SellingPrice, item.TaxRate,
		item.Active, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActive activa o desactiva un ítem.
func (r *ItemRepo) SetActive(id string, active bool) error {
	query := `UPDATE items SET active = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, active)
	if err != nil {
		return fmt.Errorf("set item active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ítems, opcionalmente sólo los activos.
func (r *ItemRepo) List(onlyActive bool, limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT id, sku, name, description, category_id, unit_measure, min_stock, purchase_price, selling_price, tax_rate, active, created_at, updated_at
		FROM items`
	if onlyActive {
		query += " WHERE active"
	}
	query += " ORDER BY name LIMIT $1 OFFSET $2"
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	var categoryID *string
	if err := row.Scan(&i.ID, &i.SKU, &i.Name, &i.Description, &categoryID,
		&i.UnitMeasure, &i.MinStock, &i.PurchasePrice, &i.SellingPrice, &i.TaxRate,
		&i.Active, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	if categoryID != nil {
		i.CategoryID = *categoryID
	}
	return &i, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
