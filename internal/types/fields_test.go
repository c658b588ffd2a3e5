package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldDescriptorQuestion(t *testing.T) {
	tests := []struct {
		name     string
		field    FieldDescriptor
		expected string
	}{
		{"Label wins", FieldDescriptor{Index: 3, Label: "Phone", Placeholder: "Enter phone", Name: "phone"}, "Phone"},
		{"Placeholder fallback", FieldDescriptor{Index: 3, Placeholder: "Enter phone", Name: "phone"}, "Enter phone"},
		{"Name fallback", FieldDescriptor{Index: 3, Name: "phone"}, "phone"},
		{"Index as last resort", FieldDescriptor{Index: 3}, "Field 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.field.Question())
		})
	}
}

func TestFieldDescriptorRef(t *testing.T) {
	tests := []struct {
		name     string
		field    FieldDescriptor
		expected string
	}{
		{"ID preferred", FieldDescriptor{Tag: "input", ID: "email", Name: "email"}, "#email"},
		{"Name fallback", FieldDescriptor{Tag: "select", Name: "years"}, `select[name="years"]`},
		{"Placeholder fallback", FieldDescriptor{Tag: "input", Placeholder: "City"}, `input[placeholder="City"]`},
		{"No selector", FieldDescriptor{Tag: "input", Index: 2}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := tt.field.Ref()
			assert.Equal(t, tt.expected, ref.Selector)
			assert.Equal(t, tt.field.Index, ref.Index)
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "phone", NormalizeKey("  Phone "))
	assert.Equal(t, "years of experience?", NormalizeKey("Years of Experience?"))
	assert.Equal(t, "", NormalizeKey("   "))
}
