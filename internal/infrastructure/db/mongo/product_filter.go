package mongo

import (
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

// productFilter translates a catalog query into a products collection filter.
// The keyword is matched literally, case-insensitively, anywhere in the name.
func productFilter(q domain.ProductQuery) (bson.M, error) {
	filter := bson.M{}
	if q.Keyword != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(q.Keyword), "$options": "i"}
	}

	for _, c := range q.Constraints {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		v, err := constraintValue(c)
		if err != nil {
			return nil, err
		}
		ops, ok := filter[c.Field].(bson.M)
		if !ok {
			ops = bson.M{}
			filter[c.Field] = ops
		}
		ops["$"+string(c.Op)] = v
	}
	return filter, nil
}

// constraintValue converts the raw query-string value into the stored type
// of the field.
func constraintValue(c domain.FieldConstraint) (interface{}, error) {
	switch c.Field {
	case domain.FieldCategory:
		oid, err := primitive.ObjectIDFromHex(c.Value)
		if err != nil {
			return nil, domain.Validation("Resource not found. Invalid: category")
		}
		return oid, nil
	case domain.FieldPrice:
		d, err := primitive.ParseDecimal128(c.Value)
		if err != nil {
			return nil, domain.Validation("Invalid value for filter price: " + c.Value)
		}
		return d, nil
	default:
		f, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return nil, domain.Validation("Invalid value for filter " + c.Field + ": " + c.Value)
		}
		return f, nil
	}
}
