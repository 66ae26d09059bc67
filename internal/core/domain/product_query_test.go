package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductQuery_Paginate(t *testing.T) {
	tests := []struct {
		name          string
		size, page    int
		offset, limit int64
	}{
		{"defaults", 0, 0, 0, DefaultPageSize},
		{"second page", 10, 2, 10, 10},
		{"capped size", 500, 3, 2 * MaxPageSize, MaxPageSize},
		{"negative page", 5, -1, 0, 5},
		{"huge page", 0, 922337203685477580, int64(MaxPage-1) * DefaultPageSize, DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewProductQuery().Paginate(tt.size, tt.page)
			assert.Equal(t, tt.offset, q.Offset())
			assert.Equal(t, tt.limit, q.Limit())
		})
	}
}

func TestProductQuery_Filter(t *testing.T) {
	base := NewProductQuery().Search("  phone ")
	assert.Equal(t, "phone", base.Keyword)

	q, err := base.Filter(
		FieldConstraint{Field: FieldPrice, Op: OpGte, Value: "10"},
		FieldConstraint{Field: FieldCategory, Op: OpEq, Value: "c1"},
	)
	require.NoError(t, err)
	assert.Len(t, q.Constraints, 2)
	assert.Empty(t, base.Constraints, "builder must not mutate the receiver")

	_, err = q.Filter(FieldConstraint{Field: "password", Op: OpEq, Value: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = q.Filter(FieldConstraint{Field: FieldPrice, Op: "regex", Value: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = q.Filter(FieldConstraint{Field: FieldCategory, Op: OpGt, Value: "c1"})
	assert.ErrorIs(t, err, ErrValidation)
}
