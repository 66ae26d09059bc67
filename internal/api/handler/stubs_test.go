package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/ecommerce-api/internal/api/middleware"
	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

type stubUserService struct {
	registerFn       func(ctx context.Context, name, email, password string) (*ports.AuthResult, error)
	authenticateFn   func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	changePasswordFn func(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) (*ports.AuthResult, error)
	forgotPasswordFn func(ctx context.Context, email, resetURLBase string) error
	resetPasswordFn  func(ctx context.Context, token, password, confirmPassword string) (*ports.AuthResult, error)
	profileFn        func(ctx context.Context, userID string) (*domain.User, error)
	updateProfileFn  func(ctx context.Context, userID, name, email string) (*domain.User, error)
	listUsersFn      func(ctx context.Context) ([]*domain.User, error)
	getUserFn        func(ctx context.Context, id string) (*domain.User, error)
	updateRoleFn     func(ctx context.Context, id, name, email, role string) (*domain.User, error)
	deleteUserFn     func(ctx context.Context, id string) error
}

func (s *stubUserService) Register(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubUserService) Authenticate(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *stubUserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) (*ports.AuthResult, error) {
	return s.changePasswordFn(ctx, userID, oldPassword, newPassword, confirmPassword)
}

func (s *stubUserService) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	return s.forgotPasswordFn(ctx, email, resetURLBase)
}

func (s *stubUserService) ResetPassword(ctx context.Context, token, password, confirmPassword string) (*ports.AuthResult, error) {
	return s.resetPasswordFn(ctx, token, password, confirmPassword)
}

func (s *stubUserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, name, email)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listUsersFn(ctx)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *stubUserService) UpdateRole(ctx context.Context, id, name, email, role string) (*domain.User, error) {
	return s.updateRoleFn(ctx, id, name, email, role)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id string) error {
	return s.deleteUserFn(ctx, id)
}

type stubCatalogService struct {
	createFn func(ctx context.Context, in domain.ProductInput, createdBy string) (*domain.Product, error)
	getFn    func(ctx context.Context, id string) (*domain.Product, error)
	listFn   func(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error)
	groupFn  func(ctx context.Context) ([]domain.ProductGroup, error)
	updateFn func(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, in domain.ProductInput, createdBy string) (*domain.Product, error) {
	return s.createFn(ctx, in, createdBy)
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatalogService) ListProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	return s.listFn(ctx, q)
}

func (s *stubCatalogService) GroupByCategory(ctx context.Context) ([]domain.ProductGroup, error) {
	return s.groupFn(ctx)
}

func (s *stubCatalogService) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubCatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubReviewService struct {
	upsertFn func(ctx context.Context, in ports.UpsertReviewInput) (domain.ReviewSummary, error)
	deleteFn func(ctx context.Context, productID, reviewID string) (domain.ReviewSummary, error)
	listFn   func(ctx context.Context, productID string) ([]domain.Review, error)
}

func (s *stubReviewService) UpsertReview(ctx context.Context, in ports.UpsertReviewInput) (domain.ReviewSummary, error) {
	return s.upsertFn(ctx, in)
}

func (s *stubReviewService) DeleteReview(ctx context.Context, productID, reviewID string) (domain.ReviewSummary, error) {
	return s.deleteFn(ctx, productID, reviewID)
}

func (s *stubReviewService) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.listFn(ctx, productID)
}

type stubCategoryService struct {
	createFn func(ctx context.Context, name string) (*domain.Category, error)
	getFn    func(ctx context.Context, id string) (*domain.Category, error)
	listFn   func(ctx context.Context) ([]*domain.Category, error)
}

func (s *stubCategoryService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	return s.createFn(ctx, name)
}

func (s *stubCategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.getFn(ctx, id)
}

func (s *stubCategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.listFn(ctx)
}

// newContext builds an echo context for a JSON request. A non-empty userID
// simulates a request that passed the Auth middleware.
func newContext(method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxRole, domain.RoleUser)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}
