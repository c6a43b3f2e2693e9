package service

import (
	"context"

	"formdesk/internal/form/model"
	"formdesk/pkg/identity"
)

// Live feed event types.
const (
	FormCreatedType = "FORM_CREATED"
	FormUpdatedType = "FORM_UPDATED"
	FormDeletedType = "FORM_DELETED"
)

type Repository interface {
	List(ctx context.Context) ([]model.Form, error)
	Create(ctx context.Context, in model.FormInput, ownerID string) (*model.Form, error)
	Update(ctx context.Context, id string, in model.FormInput, ownerID string) (*model.Form, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// UserResolver maps an external identity to the internal user id.
type UserResolver interface {
	IDByExternalID(ctx context.Context, externalID string) (string, error)
}

// Publisher receives change events after successful writes.
type Publisher interface {
	Publish(eventType, userID string, payload any)
}

type FormService struct {
	Repo  Repository
	Users UserResolver
	Feed  Publisher
}

// NewFormService wires the service. feed may be nil.
func NewFormService(repo Repository, users UserResolver, feed Publisher) *FormService {
	return &FormService{Repo: repo, Users: users, Feed: feed}
}

// List returns all forms to any caller that maps to a user.
func (s *FormService) List(ctx context.Context, caller identity.Caller) ([]model.Form, error) {
	if _, err := s.Users.IDByExternalID(ctx, caller.ExternalID); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx)
}

// Create stores in owned by the caller. in must already be validated.
func (s *FormService) Create(ctx context.Context, caller identity.Caller, in model.FormInput) (*model.Form, error) {
	ownerID, err := s.Users.IDByExternalID(ctx, caller.ExternalID)
	if err != nil {
		return nil, err
	}
	f, err := s.Repo.Create(ctx, in, ownerID)
	if err != nil {
		return nil, err
	}
	s.publish(FormCreatedType, caller, model.FormEvent{ID: f.ID, Form: f})
	return f, nil
}

func (s *FormService) Update(ctx context.Context, caller identity.Caller, id string, in model.FormInput) (*model.Form, error) {
	ownerID, err := s.Users.IDByExternalID(ctx, caller.ExternalID)
	if err != nil {
		return nil, err
	}
	f, err := s.Repo.Update(ctx, id, in, ownerID)
	if err != nil {
		return nil, err
	}
	s.publish(FormUpdatedType, caller, model.FormEvent{ID: f.ID, Form: f})
	return f, nil
}

func (s *FormService) Delete(ctx context.Context, caller identity.Caller, id string) error {
	ownerID, err := s.Users.IDByExternalID(ctx, caller.ExternalID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.publish(FormDeletedType, caller, model.FormEvent{ID: id})
	return nil
}

func (s *FormService) publish(eventType string, caller identity.Caller, payload model.FormEvent) {
	if s.Feed == nil {
		return
	}
	s.Feed.Publish(eventType, caller.ExternalID, payload)
}
