package domain

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps the skip offset of the largest page within int32.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// FilterOp is a comparison operator usable in a field constraint.
type FilterOp string

const (
	OpEq  FilterOp = "eq"
	OpGt  FilterOp = "gt"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
	OpLte FilterOp = "lte"
)

// Filterable product fields.
const (
	FieldCategory     = "category"
	FieldPrice        = "price"
	FieldRatings      = "ratings"
	FieldStock        = "stock"
	FieldNumOfReviews = "numOfReviews"
)

var filterableFields = map[string]bool{
	FieldCategory:     true,
	FieldPrice:        true,
	FieldRatings:      true,
	FieldStock:        true,
	FieldNumOfReviews: true,
}

// FieldConstraint restricts one product field, e.g. price gte "10".
type FieldConstraint struct {
	Field string
	Op    FilterOp
	Value string
}

// Validate checks the field and operator against the allowed set. Category
// only supports equality.
func (c FieldConstraint) Validate() error {
	if !filterableFields[c.Field] {
		return Validation("Unknown filter field: " + c.Field)
	}
	switch c.Op {
	case OpEq, OpGt, OpGte, OpLt, OpLte:
	default:
		return Validation("Unknown filter operator: " + string(c.Op))
	}
	if c.Field == FieldCategory && c.Op != OpEq {
		return Validation("category only supports equality")
	}
	if strings.TrimSpace(c.Value) == "" {
		return Validation("Empty value for filter " + c.Field)
	}
	return nil
}

// ProductQuery composes keyword search, field filters and pagination into a
// single catalog query. Builder methods return modified copies.
type ProductQuery struct {
	Keyword     string
	Constraints []FieldConstraint
	PageSize    int
	Page        int
}

// NewProductQuery returns a query for the first page at the default page size.
func NewProductQuery() ProductQuery {
	return ProductQuery{PageSize: DefaultPageSize, Page: 1}
}

// Search matches products whose name contains keyword, case-insensitively.
func (q ProductQuery) Search(keyword string) ProductQuery {
	q.Keyword = strings.TrimSpace(keyword)
	return q
}

// Filter appends field constraints after validating them.
func (q ProductQuery) Filter(constraints ...FieldConstraint) (ProductQuery, error) {
	for _, c := range constraints {
		if err := c.Validate(); err != nil {
			return q, err
		}
	}
	merged := make([]FieldConstraint, 0, len(q.Constraints)+len(constraints))
	merged = append(merged, q.Constraints...)
	merged = append(merged, constraints...)
	q.Constraints = merged
	return q, nil
}

// Paginate selects a page. Non-positive values fall back to defaults; the page
// size is capped at MaxPageSize and the page at MaxPage.
func (q ProductQuery) Paginate(pageSize, page int) ProductQuery {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	q.PageSize = pageSize
	q.Page = page
	return q
}

// Offset is the number of matching products skipped before the page.
func (q ProductQuery) Offset() int64 {
	return int64(q.limitOrDefault()) * int64(q.pageOrDefault()-1)
}

// Limit is the maximum number of products on the page.
func (q ProductQuery) Limit() int64 {
	return int64(q.limitOrDefault())
}

func (q ProductQuery) limitOrDefault() int {
	if q.PageSize <= 0 {
		return DefaultPageSize
	}
	return q.PageSize
}

func (q ProductQuery) pageOrDefault() int {
	switch {
	case q.Page <= 0:
		return 1
	case q.Page > MaxPage:
		return MaxPage
	}
	return q.Page
}

// ProductPage is a page of products plus counts computed before pagination.
type ProductPage struct {
	Products      []*Product
	TotalCount    int64
	FilteredCount int64
	PageSize      int
}
