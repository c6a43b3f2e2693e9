package service

import (
	"context"
	"errors"
	"fmt"

	"formdesk/internal/user/model"
	"formdesk/pkg/apperr"
	"formdesk/pkg/identity"
	"formdesk/pkg/logger"
)

// RoleTiers are the two places a role can be read from: the identity
// provider's metadata (fast, filled during sign-in) and the users table.
type RoleTiers interface {
	ReadFast(ctx context.Context, externalID string) (identity.Role, bool, error)
	ReadDurable(ctx context.Context, externalID string) (identity.Role, bool, error)
}

type Metadata interface {
	ReadRole(ctx context.Context, externalID string) (identity.Role, bool, error)
	WriteRole(ctx context.Context, externalID string, role identity.Role) error
}

type UserStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*model.User, error)
	UpdateRole(ctx context.Context, externalID string, role identity.Role) (int64, error)
	CreateWithRole(ctx context.Context, externalID, email string, role identity.Role) error
}

// StoreTiers reads the fast tier from Metadata and the durable tier from
// Users.
type StoreTiers struct {
	Metadata Metadata
	Users    UserStore
}

func (t StoreTiers) ReadFast(ctx context.Context, externalID string) (identity.Role, bool, error) {
	return t.Metadata.ReadRole(ctx, externalID)
}

func (t StoreTiers) ReadDurable(ctx context.Context, externalID string) (identity.Role, bool, error) {
	u, err := t.Users.FindByExternalID(ctx, externalID)
	if errors.Is(err, apperr.ErrUserNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if u.Role == nil {
		return "", false, nil
	}
	return *u.Role, true, nil
}

type RoleService struct {
	Tiers    RoleTiers
	Metadata Metadata
	Users    UserStore
}

func NewRoleService(metadata Metadata, users UserStore) *RoleService {
	return &RoleService{
		Tiers:    StoreTiers{Metadata: metadata, Users: users},
		Metadata: metadata,
		Users:    users,
	}
}

// GetRole returns the caller's role, or false if none was ever assigned.
// A failing fast tier is logged and skipped.
func (s *RoleService) GetRole(ctx context.Context, externalID string) (identity.Role, bool, error) {
	role, ok, err := s.Tiers.ReadFast(ctx, externalID)
	if err != nil {
		logger.Sugar.Warnf("Metadata role lookup failed for %s, using users table: %v", externalID, err)
	} else if ok {
		return role, true, nil
	}

	role, ok, err = s.Tiers.ReadDurable(ctx, externalID)
	if err != nil {
		return "", false, fmt.Errorf("read durable role: %w", err)
	}
	return role, ok, nil
}

// SetRole writes role to the metadata store and then to the users row,
// creating the row on first assignment. If the second write fails the
// metadata keeps the new role and the error is returned for a retry.
func (s *RoleService) SetRole(ctx context.Context, caller identity.Caller, role identity.Role) error {
	if !role.Valid() {
		return apperr.NewBadRequest("Invalid role. Must be ADMIN or GUEST")
	}

	if err := s.Metadata.WriteRole(ctx, caller.ExternalID, role); err != nil {
		return fmt.Errorf("write metadata role: %w", err)
	}

	n, err := s.Users.UpdateRole(ctx, caller.ExternalID, role)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if n > 0 {
		return nil
	}

	if caller.Email == "" {
		return apperr.ErrMissingEmail
	}
	if err := s.Users.CreateWithRole(ctx, caller.ExternalID, caller.Email, role); err != nil {
		return err
	}
	logger.Sugar.Infof("Created user row for %s with role %s", caller.ExternalID, role)
	return nil
}
