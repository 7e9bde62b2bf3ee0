package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// CategoryUseCase CRUD de categorías.
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso de categorías.
func NewCategoryUseCase(categoryRepo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

// Create registra una categoría. El código es único: ErrDuplicate si existe.
func (uc *CategoryUseCase) Create(actor entity.Actor, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.categoryRepo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	cat := &entity.Category{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Code:      in.Code,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.categoryRepo.Create(cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// Update modifica nombre o estado de una categoría.
func (uc *CategoryUseCase) Update(actor entity.Actor, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	cat, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		cat.Name = in.Name
	}
	if in.Status != "" {
		if in.Status != "active" && in.Status != "inactive" {
			return nil, domain.ErrInvalidInput
		}
		cat.Status = in.Status
	}
	cat.UpdatedAt = time.Now()
	if err := uc.categoryRepo.Update(cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// GetByID devuelve una categoría por ID.
func (uc *CategoryUseCase) GetByID(id string) (*dto.CategoryResponse, error) {
	cat, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(cat), nil
}

// List lista categorías con paginación.
func (uc *CategoryUseCase) List(limit, offset int) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, cat := range list {
		out = append(out, *toCategoryResponse(cat))
	}
	return out, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
