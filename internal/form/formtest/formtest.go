// Package formtest provides an in-memory form store for tests.
package formtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"formdesk/internal/form/model"
	"formdesk/pkg/apperr"

	"github.com/google/uuid"
)

// Store implements the form repository and user resolver in memory.
// Timestamps are taken from a clock that advances one second per create so
// ordering is deterministic.
type Store struct {
	mu    sync.Mutex
	users map[string]string
	forms map[string]model.Form
	clock time.Time

	// Err, when set, is returned by every repository call.
	Err error
}

func New() *Store {
	return &Store{
		users: map[string]string{},
		forms: map[string]model.Form{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddUser registers externalID and returns its internal id.
func (s *Store) AddUser(externalID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := "uid-" + externalID
	s.users[externalID] = id
	return id
}

func (s *Store) IDByExternalID(_ context.Context, externalID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.users[externalID]
	if !ok {
		return "", apperr.ErrUserNotFound
	}
	return id, nil
}

func (s *Store) List(context.Context) ([]model.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Form, 0, len(s.forms))
	for _, f := range s.forms {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) Create(_ context.Context, in model.FormInput, ownerID string) (*model.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.clock = s.clock.Add(time.Second)
	f := model.Form{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Address:   in.Address,
		Pin:       in.Pin,
		Phone:     in.Phone,
		OwnerID:   ownerID,
		CreatedAt: s.clock,
		UpdatedAt: s.clock,
	}
	s.forms[f.ID] = f
	return &f, nil
}

func (s *Store) Update(_ context.Context, id string, in model.FormInput, ownerID string) (*model.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	f, ok := s.forms[id]
	if !ok || f.OwnerID != ownerID {
		return nil, apperr.ErrNotFoundOrForbidden
	}
	f.Name, f.Address, f.Pin, f.Phone = in.Name, in.Address, in.Pin, in.Phone
	f.UpdatedAt = s.clock.Add(time.Millisecond)
	s.forms[id] = f
	return &f, nil
}

func (s *Store) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	f, ok := s.forms[id]
	if !ok || f.OwnerID != ownerID {
		return apperr.ErrNotFoundOrForbidden
	}
	delete(s.forms, id)
	return nil
}

// Event is one call recorded by Feed.
type Event struct {
	Type    string
	UserID  string
	Payload any
}

// Feed records published events.
type Feed struct {
	mu     sync.Mutex
	Events []Event
}

func (f *Feed) Publish(eventType, userID string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Events = append(f.Events, Event{Type: eventType, UserID: userID, Payload: payload})
}
