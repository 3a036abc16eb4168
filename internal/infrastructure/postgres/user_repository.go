package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jvidalc/stock-core/internal/domain"
	"github.com/jvidalc/stock-core/internal/domain/entity"
	"github.com/jvidalc/stock-core/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = "id, email, password_hash, name, role, status, created_at, updated_at"

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.Status,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID (nil si no existe).
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

// GetByEmail obtiene un usuario por email (nil si no existe).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE email = $1`
	return r.get(ctx, query, email)
}

// List lista usuarios por fecha de creación.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// HasWarehouseGrant consulta si el usuario tiene grant de escritura sobre la bodega.
func (r *UserRepo) HasWarehouseGrant(ctx context.Context, userID, warehouseID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM warehouse_users WHERE user_id = $1 AND warehouse_id = $2
		)`
	var has bool
	err := r.q.QueryRow(ctx, query, userID, warehouseID).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("has warehouse grant: %w", err)
	}
	return has, nil
}

// GrantWarehouse otorga el grant usuario-bodega (idempotente).
func (r *UserRepo) GrantWarehouse(ctx context.Context, userID, warehouseID string) error {
	query := `
		INSERT INTO warehouse_users (user_id, warehouse_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, warehouse_id) DO NOTHING`
	_, err := r.q.Exec(ctx, query, userID, warehouseID)
	if err != nil {
		return fmt.Errorf("grant warehouse: %w", err)
	}
	return nil
}

// RevokeWarehouse revoca el grant usuario-bodega.
func (r *UserRepo) RevokeWarehouse(ctx context.Context, userID, warehouseID string) error {
	query := `DELETE FROM warehouse_users WHERE user_id = $1 AND warehouse_id = $2`
	_, err := r.q.Exec(ctx, query, userID, warehouseID)
	if err != nil {
		return fmt.Errorf("revoke warehouse: %w", err)
	}
	return nil
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
