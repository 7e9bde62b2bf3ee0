package repository

import "github.com/jhoicas/Bodegas-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySKU(sku string) (*entity.Item, error)
	Update(item *entity.Item) error
	SetActive(id string, active bool) error
	List(onlyActive bool, limit, offset int) ([]*entity.Item, error)
}
