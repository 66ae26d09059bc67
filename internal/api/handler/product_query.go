package handler

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

// bracketKey matches query keys of the form field[op], e.g. price[gte].
var bracketKey = regexp.MustCompile(`^([A-Za-z]+)\[([a-z]+)\]$`)

// reserved query keys that are not field filters.
var reserved = map[string]bool{"keyword": true, "page": true, "limit": true}

// parseProductQuery builds a catalog query from the listing's query string:
// keyword, page, limit, plain equality filters (category=...) and operator
// filters (price[gte]=10). Unknown plain keys are ignored; unknown bracketed
// fields or operators are rejected.
func parseProductQuery(values url.Values) (domain.ProductQuery, error) {
	q := domain.NewProductQuery().Search(values.Get("keyword"))

	page, err := intParam(values, "page")
	if err != nil {
		return q, err
	}
	if page > domain.MaxPage {
		return q, domain.Validation("Invalid page: " + values.Get("page"))
	}
	limit, err := intParam(values, "limit")
	if err != nil {
		return q, err
	}
	q = q.Paginate(limit, page)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var constraints []domain.FieldConstraint
	for _, k := range keys {
		if reserved[k] {
			continue
		}
		field, op := k, domain.OpEq
		if m := bracketKey.FindStringSubmatch(k); m != nil {
			field, op = m[1], domain.FilterOp(m[2])
		} else if !isFilterable(field) {
			continue
		}
		for _, v := range values[k] {
			constraints = append(constraints, domain.FieldConstraint{Field: field, Op: op, Value: v})
		}
	}
	return q.Filter(constraints...)
}

func isFilterable(field string) bool {
	switch field {
	case domain.FieldCategory, domain.FieldPrice, domain.FieldRatings, domain.FieldStock, domain.FieldNumOfReviews:
		return true
	}
	return false
}

func intParam(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Validation("Invalid " + key + ": " + raw)
	}
	return n, nil
}
