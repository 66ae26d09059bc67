package handler

import (
	"github.com/shopspring/decimal"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

// --- Account requests ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type updatePasswordRequest struct {
	OldPassword     string `json:"oldPassword"     validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type updateRoleRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role" validate:"required,oneof=user admin"`
}

// --- Catalog requests ---

type createProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       *int            `json:"stock"`
}

func (r createProductRequest) toInput() domain.ProductInput {
	return domain.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.Category,
		Stock:       r.Stock,
	}
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Stock       *int             `json:"stock"`
}

func (r updateProductRequest) toPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.Category,
		Stock:       r.Stock,
	}
}

type reviewRequest struct {
	ProductID string `json:"productId" validate:"required" label:"Product ID"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required" label:"Category Name"`
}

// --- Responses (documentation only; handlers write echo.Map envelopes) ---

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type authResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type userResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

type usersResponse struct {
	Success bool           `json:"success"`
	Users   []*domain.User `json:"users"`
}

type productResponse struct {
	Success bool            `json:"success"`
	Product *domain.Product `json:"product"`
}

type productListResponse struct {
	Success               bool              `json:"success"`
	Products              []*domain.Product `json:"products"`
	ProductCount          int64             `json:"productCount"`
	ResultPerPage         int               `json:"resultPerPage"`
	FilteredProductsCount int64             `json:"filteredProductsCount"`
}

type productGroupsResponse struct {
	Success bool                  `json:"success"`
	Groups  []domain.ProductGroup `json:"groups"`
}

type reviewSummaryResponse struct {
	Success      bool    `json:"success"`
	NumOfReviews int     `json:"numOfReviews"`
	Ratings      float64 `json:"ratings"`
}

type reviewsResponse struct {
	Success bool            `json:"success"`
	Reviews []domain.Review `json:"reviews"`
}

type categoryResponse struct {
	Success  bool             `json:"success"`
	Category *domain.Category `json:"category"`
}

type categoriesResponse struct {
	Success    bool               `json:"success"`
	Categories []*domain.Category `json:"categories"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
