// Package validator checks candidate forms against the field rules.
package validator

import (
	"regexp"

	"formdesk/internal/form/model"
)

const (
	Name    = "name"
	Address = "address"
	Pin     = "pin"
	Phone   = "phone"
)

const (
	MsgNameRequired    = "Name is required"
	MsgAddressRequired = "Address is required"
	MsgPinRequired     = "PIN is required"
	MsgPinFormat       = "PIN must be 6 digits"
	MsgPhoneRequired   = "Phone number is required"
	MsgPhoneFormat     = "Phone number must be 10 digits"
	MsgAllRequired     = "All fields are required"
)

var (
	pinPattern   = regexp.MustCompile(`^[0-9]{6}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// FieldErrors maps a field name to its violation.
type FieldErrors map[string]string

// Validate returns every rule f violates. An empty result means f can be
// written.
func Validate(f model.FormInput) FieldErrors {
	errs := FieldErrors{}
	if f.Name == "" {
		errs[Name] = MsgNameRequired
	}
	if f.Address == "" {
		errs[Address] = MsgAddressRequired
	}
	switch {
	case f.Pin == "":
		errs[Pin] = MsgPinRequired
	case !pinPattern.MatchString(f.Pin):
		errs[Pin] = MsgPinFormat
	}
	switch {
	case f.Phone == "":
		errs[Phone] = MsgPhoneRequired
	case !phonePattern.MatchString(f.Phone):
		errs[Phone] = MsgPhoneFormat
	}
	return errs
}

// Request folds the set into the single message a request handler reports:
// missing fields first, then the PIN format, then the phone format.
func (e FieldErrors) Request() string {
	for _, field := range []string{Name, Address, Pin, Phone} {
		switch e[field] {
		case MsgNameRequired, MsgAddressRequired, MsgPinRequired, MsgPhoneRequired:
			return MsgAllRequired
		}
	}
	if msg, ok := e[Pin]; ok {
		return msg
	}
	return e[Phone]
}
