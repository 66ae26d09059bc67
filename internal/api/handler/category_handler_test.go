package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

func TestCategoryHandler(t *testing.T) {
	stub := &stubCategoryService{
		createFn: func(ctx context.Context, name string) (*domain.Category, error) {
			if name == "Books" {
				return nil, domain.ErrCategoryExists
			}
			return &domain.Category{ID: "c1", Name: name}, nil
		},
		getFn: func(ctx context.Context, id string) (*domain.Category, error) {
			return nil, domain.ErrCategoryNotFound
		},
		listFn: func(ctx context.Context) ([]*domain.Category, error) {
			return []*domain.Category{{ID: "c1", Name: "Phones"}}, nil
		},
	}
	h := NewCategoryHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/v1/admin/category/new", `{"name":"Phones"}`, "admin-1")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, _ = newContext(http.MethodPost, "/api/v1/admin/category/new", `{}`, "admin-1")
	err := h.Create(c)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Please Enter Category Name", domain.Message(err))

	c, _ = newContext(http.MethodPost, "/api/v1/admin/category/new", `{"name":"Books"}`, "admin-1")
	assert.ErrorIs(t, h.Create(c), domain.ErrValidation)

	c, rec = newContext(http.MethodGet, "/api/v1/categories", "", "")
	require.NoError(t, h.List(c))
	assert.Len(t, decode(t, rec)["categories"], 1)

	c, _ = newContext(http.MethodGet, "/", "", "")
	c.SetParamNames("id")
	c.SetParamValues("c9")
	assert.ErrorIs(t, h.Get(c), domain.ErrNotFound)
}
