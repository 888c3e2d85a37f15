package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"name" validate:"required,max=10"`
	Email   string `json:"email" validate:"required,email"`
	Website string `json:"website,omitempty" validate:"omitempty,url"`
	Secret  string `json:"-" validate:"max=3"`
}

func TestNew(t *testing.T) {
	v := New()
	assert.NotNil(t, v)
	assert.NotNil(t, v.structValidator)
}

func TestValidateStruct_Valid(t *testing.T) {
	result := New().ValidateStruct(sample{Name: "Ada", Email: "ada@example.com"})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Nil(t, result.FieldErrors())
}

func TestValidateStruct_FieldErrors(t *testing.T) {
	result := New().ValidateStruct(sample{
		Name:    "a very long name",
		Email:   "not-an-email",
		Website: "example",
	})
	require.False(t, result.Valid)

	fields := result.FieldErrors()
	assert.Equal(t, "Must be at most 10 characters", fields["name"])
	assert.Equal(t, "Must be a valid email address", fields["email"])
	assert.Equal(t, "Must be an absolute URL", fields["website"])
	assert.True(t, strings.HasPrefix(result.Error(), "validation failed: "))

	for _, e := range result.Errors {
		if e.Field == "email" {
			assert.Equal(t, "not-an-email", e.Value)
		}
	}
}

func TestValidateStruct_Required(t *testing.T) {
	result := New().ValidateStruct(sample{})
	require.False(t, result.Valid)

	fields := result.FieldErrors()
	assert.Equal(t, "name is required", fields["name"])
	assert.Equal(t, "email is required", fields["email"])
	assert.Len(t, fields, 2)
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	result := New().ValidateStruct("text")
	require.False(t, result.Valid)
	assert.Equal(t, "document", result.Errors[0].Field)
}
