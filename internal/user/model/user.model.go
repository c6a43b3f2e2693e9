package model

import (
	"time"

	"formdesk/pkg/identity"
)

type User struct {
	ID         string         `json:"id"`
	ExternalID string         `json:"externalId"`
	Email      string         `json:"email"`
	Role       *identity.Role `json:"role"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type SetRoleResponse struct {
	Success bool          `json:"success"`
	Role    identity.Role `json:"role"`
}

type GetRoleResponse struct {
	Role *identity.Role `json:"role"`
}
