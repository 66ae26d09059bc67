package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultStock   = 1
	maxStock       = 9999
	maxPriceDigits = 8

	MinRating = 1
	MaxRating = 5
)

// Category groups products.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Review is a single user's rating of a product. It is owned by its product
// and is not addressable on its own.
type Review struct {
	ID      string `json:"id"`
	UserID  string `json:"user"`
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Product is the catalog aggregate root. NumOfReviews and Ratings are derived
// from Reviews and must only change through UpsertReview / RemoveReview.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   string          `json:"category_id"`
	Category     *Category       `json:"category,omitempty"`
	Stock        int             `json:"stock"`
	CreatedBy    string          `json:"created_by"`
	Reviews      []Review        `json:"reviews"`
	NumOfReviews int             `json:"numOfReviews"`
	Ratings      float64         `json:"ratings"`
	Version      int64           `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ReviewSummary is the derived state returned after every review mutation.
type ReviewSummary struct {
	NumOfReviews int     `json:"numOfReviews"`
	Ratings      float64 `json:"ratings"`
}

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	Stock       *int
}

// ProductPatch carries a partial product update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *string
	Stock       *int
}

func validateProductName(name string) error {
	if name == "" {
		return Validation("Please Enter product Name")
	}
	return nil
}

func validatePrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return Validation("Please Enter product Price")
	}
	if len(p.Truncate(0).String()) > maxPriceDigits {
		return Validation("Price cannot exceed 8 characters")
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 || stock > maxStock {
		return Validation("Stock must be between 0 and 9999")
	}
	return nil
}

// NewProduct validates input and builds a product with empty review state.
func NewProduct(in ProductInput, createdBy string, now time.Time) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, Validation("Please Enter product Description")
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if in.CategoryID == "" {
		return nil, Validation("Please Enter Product Category")
	}
	stock := defaultStock
	if in.Stock != nil {
		stock = *in.Stock
	}
	if err := validateStock(stock); err != nil {
		return nil, err
	}
	return &Product{
		Name:        name,
		Description: desc,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Stock:       stock,
		CreatedBy:   createdBy,
		Reviews:     []Review{},
		CreatedAt:   now.UTC(),
	}, nil
}

// Apply validates and merges a patch into p.
func (p *Product) Apply(patch ProductPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := validateProductName(name); err != nil {
			return err
		}
		p.Name = name
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		if desc == "" {
			return Validation("Please Enter product Description")
		}
		p.Description = desc
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return err
		}
		p.Price = *patch.Price
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID == "" {
			return Validation("Please Enter Product Category")
		}
		p.CategoryID = *patch.CategoryID
	}
	if patch.Stock != nil {
		if err := validateStock(*patch.Stock); err != nil {
			return err
		}
		p.Stock = *patch.Stock
	}
	return nil
}

// ValidateRating checks the 1..5 rating range.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return Validation("Rating must be between 1 and 5")
	}
	return nil
}

// UpsertReview replaces the rating and comment of the review left by r.UserID,
// or appends r when that user has not reviewed the product yet. It reports
// whether a new review was appended. Derived fields are recomputed either way.
func (p *Product) UpsertReview(r Review) bool {
	for i := range p.Reviews {
		if p.Reviews[i].UserID == r.UserID {
			p.Reviews[i].Rating = r.Rating
			p.Reviews[i].Comment = r.Comment
			p.recompute()
			return false
		}
	}
	p.Reviews = append(p.Reviews, r)
	p.recompute()
	return true
}

// RemoveReview drops the review with the given id. Unknown ids leave the set
// unchanged; derived fields are recomputed either way.
func (p *Product) RemoveReview(reviewID string) bool {
	kept := make([]Review, 0, len(p.Reviews))
	removed := false
	for _, r := range p.Reviews {
		if r.ID == reviewID {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	p.Reviews = kept
	p.recompute()
	return removed
}

// Summary returns the current derived review state.
func (p *Product) Summary() ReviewSummary {
	return ReviewSummary{NumOfReviews: p.NumOfReviews, Ratings: p.Ratings}
}

func (p *Product) recompute() {
	p.NumOfReviews = len(p.Reviews)
	p.Ratings = AverageRating(p.Reviews)
}

// AverageRating is the arithmetic mean of the review ratings, 0 for none.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// ProductGroup is one category bucket of GroupByCategory.
type ProductGroup struct {
	CategoryID string     `json:"category_id"`
	Category   *Category  `json:"category_details"`
	Products   []*Product `json:"products"`
}

// GroupByCategory partitions products by category id, keeping the order in
// which each category is first seen.
func GroupByCategory(products []*Product) []ProductGroup {
	index := make(map[string]int)
	groups := make([]ProductGroup, 0)
	for _, p := range products {
		i, ok := index[p.CategoryID]
		if !ok {
			i = len(groups)
			index[p.CategoryID] = i
			groups = append(groups, ProductGroup{CategoryID: p.CategoryID})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}
