package repository

import (
	"context"
	"database/sql"
	"errors"

	"formdesk/internal/form/model"
	"formdesk/pkg/apperr"
	"formdesk/pkg/logger"

	"github.com/google/uuid"
)

const formColumns = "id, name, address, pin, phone, owner_id, created_at, updated_at"

type FormRepository struct {
	DB *sql.DB
}

func NewFormRepository(db *sql.DB) *FormRepository {
	return &FormRepository{DB: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanForm(s scanner) (*model.Form, error) {
	var f model.Form
	err := s.Scan(&f.ID, &f.Name, &f.Address, &f.Pin, &f.Phone, &f.OwnerID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns every form, newest first.
func (r *FormRepository) List(ctx context.Context) ([]model.Form, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+formColumns+" FROM forms ORDER BY created_at DESC, id DESC")
	if err != nil {
		logger.Sugar.Errorf("Failed to list forms: %v", err)
		return nil, err
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			logger.Sugar.Errorf("Failed to scan form: %v", err)
			return nil, err
		}
		forms = append(forms, *f)
	}
	if err := rows.Err(); err != nil {
		logger.Sugar.Errorf("Failed to iterate forms: %v", err)
		return nil, err
	}
	return forms, nil
}

func (r *FormRepository) Create(ctx context.Context, in model.FormInput, ownerID string) (*model.Form, error) {
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO forms (id, name, address, pin, phone, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING `+formColumns,
		uuid.NewString(), in.Name, in.Address, in.Pin, in.Phone, ownerID)
	f, err := scanForm(row)
	if err != nil {
		logger.Sugar.Errorf("Failed to create form for owner %s: %v", ownerID, err)
		return nil, err
	}
	return f, nil
}

// Update overwrites the mutable fields of form id if ownerID owns it.
func (r *FormRepository) Update(ctx context.Context, id string, in model.FormInput, ownerID string) (*model.Form, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.ErrNotFoundOrForbidden
	}
	row := r.DB.QueryRowContext(ctx, `
		UPDATE forms SET name = $1, address = $2, pin = $3, phone = $4, updated_at = NOW()
		WHERE id = $5 AND owner_id = $6
		RETURNING `+formColumns,
		in.Name, in.Address, in.Pin, in.Phone, id, ownerID)
	f, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFoundOrForbidden
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to update form %s: %v", id, err)
		return nil, err
	}
	return f, nil
}

// Delete removes form id if ownerID owns it.
func (r *FormRepository) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.ErrNotFoundOrForbidden
	}
	result, err := r.DB.ExecContext(ctx, "DELETE FROM forms WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete form %s: %v", id, err)
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFoundOrForbidden
	}
	return nil
}
