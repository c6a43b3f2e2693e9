package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"formdesk/internal/user/model"
	"formdesk/pkg/apperr"
	"formdesk/pkg/identity"
	"formdesk/pkg/logger"

	"github.com/google/uuid"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	var (
		u    model.User
		role sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, external_id, email, role, created_at, updated_at FROM users WHERE external_id = $1`,
		externalID,
	).Scan(&u.ID, &u.ExternalID, &u.Email, &role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to load user %s: %v", externalID, err)
		return nil, err
	}
	if role.Valid {
		rr := identity.Role(role.String)
		u.Role = &rr
	}
	return &u, nil
}

// IDByExternalID resolves an external identity to the internal user id.
func (r *UserRepository) IDByExternalID(ctx context.Context, externalID string) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM users WHERE external_id = $1", externalID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrUserNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to resolve user %s: %v", externalID, err)
		return "", err
	}
	return id, nil
}

// UpdateRole sets the role of an existing row and reports how many rows
// matched (0 or 1).
func (r *UserRepository) UpdateRole(ctx context.Context, externalID string, role identity.Role) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role = $1, updated_at = NOW() WHERE external_id = $2",
		string(role), externalID)
	if err != nil {
		logger.Sugar.Errorf("Failed to update role for %s: %v", externalID, err)
		return 0, err
	}
	return result.RowsAffected()
}

// CreateWithRole inserts the users row for externalID. A concurrent insert
// for the same identity turns into a role update.
func (r *UserRepository) CreateWithRole(ctx context.Context, externalID, email string, role identity.Role) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, external_id, email, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`,
		uuid.NewString(), externalID, email, string(role))
	if err != nil {
		logger.Sugar.Errorf("Failed to create user %s: %v", externalID, err)
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
