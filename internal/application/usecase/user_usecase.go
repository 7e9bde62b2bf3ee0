package usecase

import (
	"time"

	"github.com/jhoicas/Bodegas-api/internal/application/dto"
	"github.com/jhoicas/Bodegas-api/internal/domain"
	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	"github.com/jhoicas/Bodegas-api/internal/domain/repository"
)

// UserUseCase administración de usuarios (listado, rol, bodega asignada).
type UserUseCase struct {
	userRepo repository.UserRepository
}

// NewUserUseCase construye el caso de uso de usuarios.
func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// List lista usuarios (sólo admin).
func (uc *UserUseCase) List(actor entity.Actor, limit, offset int) ([]dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	users, err := uc.userRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// GetByID devuelve un usuario (admin, o el propio usuario).
func (uc *UserUseCase) GetByID(actor entity.Actor, id string) (*dto.UserResponse, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, domain.ErrForbidden
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

// AssignRole cambia rol y bodega asignada de un usuario (sólo admin).
// Manager y staff requieren bodega; admin no lleva bodega asignada.
func (uc *UserUseCase) AssignRole(actor entity.Actor, id, role, warehouseID string) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !entity.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	if role != entity.RoleAdmin && warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Role = role
	if role == entity.RoleAdmin {
		user.WarehouseID = ""
	} else {
		user.WarehouseID = warehouseID
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ToUserResponse convierte la entidad a DTO (sin hash de contraseña).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		WarehouseID: u.WarehouseID,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
