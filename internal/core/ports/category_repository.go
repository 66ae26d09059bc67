package ports

import (
	"context"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	// FindByIDs resolves many categories in one round trip. Unknown ids are
	// absent from the returned map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}
