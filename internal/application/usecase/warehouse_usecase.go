package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// WarehouseUseCase CRUD de bodegas. Sólo admin crea y modifica.
type WarehouseUseCase struct {
	warehouseRepo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso de bodegas.
func NewWarehouseUseCase(warehouseRepo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{warehouseRepo: warehouseRepo}
}

// Create registra una bodega. El nombre es único: ErrDuplicate si ya existe.
func (uc *WarehouseUseCase) Create(actor entity.Actor, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.warehouseRepo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	wh := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Location:  in.Location,
		ManagerID: in.ManagerID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.warehouseRepo.Create(wh); err != nil {
		return nil, err
	}
	return toWarehouseResponse(wh), nil
}

// Update modifica una bodega existente.
func (uc *WarehouseUseCase) Update(actor entity.Actor, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	wh, err := uc.warehouseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" && in.Name != wh.Name {
		existing, err := uc.warehouseRepo.GetByName(in.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		wh.Name = in.Name
	}
	if in.Location != "" {
		wh.Location = in.Location
	}
	if in.ManagerID != "" {
		wh.ManagerID = in.ManagerID
	}
	if in.Active != nil {
		wh.Active = *in.Active
	}
	wh.UpdatedAt = time.Now()
	if err := uc.warehouseRepo.Update(wh); err != nil {
		return nil, err
	}
	return toWarehouseResponse(wh), nil
}

// GetByID devuelve una bodega por ID.
func (uc *WarehouseUseCase) GetByID(id string) (*dto.WarehouseResponse, error) {
	wh, err := uc.warehouseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(wh), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(limit, offset int) ([]dto.WarehouseResponse, error) {
	list, err := uc.warehouseRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseResponse, 0, len(list))
	for _, wh := range list {
		out = append(out, *toWarehouseResponse(wh))
	}
	return out, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Location:  w.Location,
		ManagerID: w.ManagerID,
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
