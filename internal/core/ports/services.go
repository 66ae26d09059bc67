package ports

import (
	"context"
	"time"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

// SessionToken is a signed session credential plus its expiry.
type SessionToken struct {
	Value     string
	ExpiresAt time.Time
}

// SessionClaims are the verified contents of a session token.
type SessionClaims struct {
	UserID string
	Role   string
}

// TokenIssuer issues and verifies session tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (SessionToken, error)
	Verify(token string) (*SessionClaims, error)
}

// AuthResult is returned by every operation that logs a user in.
type AuthResult struct {
	User  *domain.User
	Token SessionToken
}

// UserService covers registration, authentication, password lifecycle and
// account administration.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email, resetURLBase string) error
	ResetPassword(ctx context.Context, token, password, confirmPassword string) (*AuthResult, error)

	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateRole(ctx context.Context, id, name, email, role string) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UpsertReviewInput carries a review submission.
type UpsertReviewInput struct {
	ProductID string
	UserID    string
	UserName  string
	Rating    int
	Comment   string
}

// ReviewService maintains product reviews and their derived aggregates.
type ReviewService interface {
	UpsertReview(ctx context.Context, in UpsertReviewInput) (domain.ReviewSummary, error)
	DeleteReview(ctx context.Context, productID, reviewID string) (domain.ReviewSummary, error)
	ListReviews(ctx context.Context, productID string) ([]domain.Review, error)
}

// CatalogService covers product CRUD and catalog queries.
type CatalogService interface {
	CreateProduct(ctx context.Context, in domain.ProductInput, createdBy string) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error)
	GroupByCategory(ctx context.Context) ([]domain.ProductGroup, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// CategoryService covers category management.
type CategoryService interface {
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}
