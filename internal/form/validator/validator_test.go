package validator

import (
	"testing"

	"formdesk/internal/form/model"

	"github.com/stretchr/testify/assert"
)

func valid() model.FormInput {
	return model.FormInput{Name: "Asha", Address: "12 Lake Rd", Pin: "560001", Phone: "9876543210"}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.FormInput)
		want   FieldErrors
	}{
		{"valid", func(*model.FormInput) {}, FieldErrors{}},
		{"short pin", func(f *model.FormInput) { f.Name, f.Address, f.Pin, f.Phone = "A", "B", "12345", "1234567890" },
			FieldErrors{Pin: MsgPinFormat}},
		{"long pin", func(f *model.FormInput) { f.Pin = "1234567" }, FieldErrors{Pin: MsgPinFormat}},
		{"non digit pin", func(f *model.FormInput) { f.Pin = "12a456" }, FieldErrors{Pin: MsgPinFormat}},
		{"unicode digit pin", func(f *model.FormInput) { f.Pin = "١٢٣٤٥٦" }, FieldErrors{Pin: MsgPinFormat}},
		{"short phone", func(f *model.FormInput) { f.Phone = "123456789" }, FieldErrors{Phone: MsgPhoneFormat}},
		{"phone with dash", func(f *model.FormInput) { f.Phone = "98765-4321" }, FieldErrors{Phone: MsgPhoneFormat}},
		{"everything missing", func(f *model.FormInput) { *f = model.FormInput{} }, FieldErrors{
			Name:    MsgNameRequired,
			Address: MsgAddressRequired,
			Pin:     MsgPinRequired,
			Phone:   MsgPhoneRequired,
		}},
		{"collects all", func(f *model.FormInput) { f.Name, f.Pin, f.Phone = "", "1", "2" }, FieldErrors{
			Name:  MsgNameRequired,
			Pin:   MsgPinFormat,
			Phone: MsgPhoneFormat,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			assert.Equal(t, tt.want, Validate(in))
		})
	}
}

func TestFieldErrorsRequest(t *testing.T) {
	assert.Equal(t, MsgAllRequired, FieldErrors{Address: MsgAddressRequired}.Request())
	assert.Equal(t, MsgAllRequired, FieldErrors{Pin: MsgPinFormat, Phone: MsgPhoneRequired}.Request())
	assert.Equal(t, MsgPinFormat, FieldErrors{Pin: MsgPinFormat, Phone: MsgPhoneFormat}.Request())
	assert.Equal(t, MsgPhoneFormat, FieldErrors{Phone: MsgPhoneFormat}.Request())
	assert.Equal(t, "", FieldErrors{}.Request())
}
