package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		req  any
		want string
	}{
		{"label tag", &categoryRequest{}, "Please Enter Category Name"},
		{"spaced field name", &updatePasswordRequest{OldPassword: "a", ConfirmPassword: "b"}, "Please Enter New Password"},
		{"email", &forgotPasswordRequest{Email: "nope"}, "Please Enter a valid Email"},
		{"oneof", &updateRoleRequest{Role: "owner"}, "Role must be one of: user, admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}

	assert.NoError(t, v.Validate(&reviewRequest{ProductID: "p1"}))
}

func TestSpaced(t *testing.T) {
	for in, want := range map[string]string{
		"Name":            "Name",
		"NewPassword":     "New Password",
		"ProductID":       "Product ID",
		"ConfirmPassword": "Confirm Password",
	} {
		assert.Equal(t, want, spaced(in))
	}
}
