package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jvidalc/stock-core/internal/application/dto"
	"github.com/jvidalc/stock-core/internal/domain"
	"github.com/jvidalc/stock-core/internal/domain/access"
	"github.com/jvidalc/stock-core/internal/domain/entity"
	"github.com/jvidalc/stock-core/internal/domain/repository"
	"github.com/jvidalc/stock-core/pkg/validator"
)

// UserUseCase aplica reglas de negocio para usuarios y sus grants por bodega.
// La identidad y la sesión son responsabilidad de la aplicación host; aquí solo
// vive lo que el control de acceso del motor necesita leer.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create registra un usuario con el rol del enum cerrado y password con bcrypt.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return nil, &domain.ValidationError{Reason: validator.Describe(errs)}
	}
	if !access.Role(in.Role).Valid() {
		return nil, &domain.ValidationError{Field: "role", Reason: "rol desconocido"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         in.Role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Authenticate verifica email y password. No crea sesión: devuelve el usuario
// para que la aplicación host haga lo suyo.
func (uc *UserUseCase) Authenticate(ctx context.Context, email, password string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return entityToUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return entityToUserResponse(user), nil
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(ctx context.Context, limit, offset int) ([]*dto.UserResponse, error) {
	users, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, entityToUserResponse(u))
	}
	return out, nil
}

// GrantWarehouse otorga a un usuario el permiso de escritura sobre una bodega.
func (uc *UserUseCase) GrantWarehouse(ctx context.Context, userID, warehouseID string) error {
	return uc.repo.GrantWarehouse(ctx, userID, warehouseID)
}

// RevokeWarehouse revoca el permiso de escritura sobre una bodega.
func (uc *UserUseCase) RevokeWarehouse(ctx context.Context, userID, warehouseID string) error {
	return uc.repo.RevokeWarehouse(ctx, userID, warehouseID)
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
