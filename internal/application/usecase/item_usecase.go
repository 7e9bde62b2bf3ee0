package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// ItemUseCase CRUD de ítems del catálogo. Sólo admin crea y modifica.
type ItemUseCase struct {
	itemRepo    repository.ItemRepository
	balanceRepo repository.StockBalanceRepository
}

// NewItemUseCase construye el caso de uso de ítems.
func NewItemUseCase(itemRepo repository.ItemRepository, balanceRepo repository.StockBalanceRepository) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo, balanceRepo: balanceRepo}
}

// Create registra un ítem. El SKU es único: devuelve ErrDuplicate si ya existe.
func (uc *ItemUseCase) Create(actor entity.Actor, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.itemRepo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.Item{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		UnitMeasure:   in.UnitMeasure,
		MinStock:      in.MinStock,
		PurchasePrice: in.PurchasePrice,
		SellingPrice:  in.SellingPrice,
		TaxRate:       in.TaxRate,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Update modifica los campos mutables de un ítem (el SKU es inmutable).
func (uc *ItemUseCase) Update(actor entity.Actor, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		item.Name = in.Name
	}
	if in.Description != "" {
		item.Description = in.Description
	}
	if in.CategoryID != "" {
		item.CategoryID = in.CategoryID
	}
	if in.UnitMeasure != "" {
		item.UnitMeasure = in.UnitMeasure
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.MinStock = *in.MinStock
	}
	if in.PurchasePrice != nil {
		item.PurchasePrice = *in.PurchasePrice
	}
	if in.SellingPrice != nil {
		item.SellingPrice = *in.SellingPrice
	}
	if in.TaxRate != nil {
		item.TaxRate = *in.TaxRate
	}
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Deactivate desactiva un ítem. Bloqueado mientras el ítem tenga stock en
// cualquier bodega (los ítems nunca se borran, sólo se desactivan).
func (uc *ItemUseCase) Deactivate(actor entity.Actor, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	total, err := uc.balanceRepo.TotalByItem(id)
	if err != nil {
		return err
	}
	if total > 0 {
		return domain.ErrInvalidState
	}
	return uc.itemRepo.SetActive(id, false)
}

// Activate reactiva un ítem desactivado.
func (uc *ItemUseCase) Activate(actor entity.Actor, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.itemRepo.SetActive(id, true)
}

// GetByID devuelve un ítem por ID.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista ítems con paginación.
func (uc *ItemUseCase) List(onlyActive bool, limit, offset int) ([]dto.ItemResponse, error) {
	items, err := uc.itemRepo.List(onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, *toItemResponse(item))
	}
	return out, nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:            i.ID,
		SKU:           i.SKU,
		Name:          i.Name,
		Description:   i.Description,
		CategoryID:    i.CategoryID,
		UnitMeasure:   i.UnitMeasure,
		MinStock:      i.MinStock,
		PurchasePrice: i.PurchasePrice,
		SellingPrice:  i.SellingPrice,
		TaxRate:       i.TaxRate,
		Active:        i.Active,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
