package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

func TestUserHandler_UpdateRole(t *testing.T) {
	var gotRole string
	stub := &stubUserService{
		updateRoleFn: func(ctx context.Context, id, name, email, role string) (*domain.User, error) {
			gotRole = role
			return &domain.User{ID: id, Name: name, Email: email, Role: role}, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := newContext(http.MethodPut, "/", `{"name":"Bob Smith","email":"bob@example.com","role":"owner"}`, "admin-1")
	c.SetParamNames("id")
	c.SetParamValues("u2")
	assert.ErrorIs(t, h.UpdateRole(c), domain.ErrValidation)

	c, rec := newContext(http.MethodPut, "/", `{"name":"Bob Smith","email":"bob@example.com","role":"admin"}`, "admin-1")
	c.SetParamNames("id")
	c.SetParamValues("u2")
	require.NoError(t, h.UpdateRole(c))
	assert.Equal(t, domain.RoleAdmin, gotRole)
	assert.Equal(t, "admin", decode(t, rec)["user"].(map[string]any)["role"])
}

func TestUserHandler_ListGetDelete(t *testing.T) {
	stub := &stubUserService{
		listUsersFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{{ID: "u1"}, {ID: "u2"}}, nil
		},
		getUserFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, domain.NotFound("User does not exist with Id: " + id)
		},
		deleteUserFn: func(ctx context.Context, id string) error { return nil },
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/v1/admin/users", "", "admin-1")
	require.NoError(t, h.List(c))
	assert.Len(t, decode(t, rec)["users"], 2)

	c, _ = newContext(http.MethodGet, "/", "", "admin-1")
	c.SetParamNames("id")
	c.SetParamValues("u9")
	err := h.Get(c)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "User does not exist with Id: u9", domain.Message(err))

	c, rec = newContext(http.MethodDelete, "/", "", "admin-1")
	c.SetParamNames("id")
	c.SetParamValues("u2")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, "User Deleted Successfully", decode(t, rec)["message"])
}
