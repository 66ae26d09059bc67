package ports

import (
	"context"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products and their
// embedded reviews.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// Find returns the requested page together with the total product count and
	// the count of products matching q before pagination.
	Find(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	// Update overwrites the editable product fields.
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error

	// SaveReviews persists reviews, numOfReviews and ratings of p if the stored
	// version still equals p.Version, incrementing it. A lost race returns
	// domain.ErrReviewConflict.
	SaveReviews(ctx context.Context, p *domain.Product) error
}
