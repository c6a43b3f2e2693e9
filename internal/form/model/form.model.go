package model

import "time"

type Form struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Pin       string    `json:"pin"`
	Phone     string    `json:"phone"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FormInput holds the four mutable fields of a form.
type FormInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Pin     string `json:"pin"`
	Phone   string `json:"phone"`
}

type UpdateFormRequest struct {
	ID string `json:"id"`
	FormInput
}

type DeleteFormRequest struct {
	ID string `json:"id"`
}

type DeleteFormResponse struct {
	Success bool `json:"success"`
}

// FormEvent is the payload broadcast on the live feed.
type FormEvent struct {
	ID   string `json:"id"`
	Form *Form  `json:"form,omitempty"`
}
