package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

func TestReviewHandler_Upsert_SnapshotsName(t *testing.T) {
	var got ports.UpsertReviewInput
	users := &stubUserService{
		profileFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID, Name: "Alice Doe"}, nil
		},
	}
	reviews := &stubReviewService{
		upsertFn: func(ctx context.Context, in ports.UpsertReviewInput) (domain.ReviewSummary, error) {
			got = in
			return domain.ReviewSummary{NumOfReviews: 2, Ratings: 3.5}, nil
		},
	}
	h := NewReviewHandler(reviews, users)

	c, rec := newContext(http.MethodPut, "/api/v1/review", `{"productId":"p1","rating":5,"comment":"great"}`, "u1")
	require.NoError(t, h.Upsert(c))

	assert.Equal(t, ports.UpsertReviewInput{
		ProductID: "p1", UserID: "u1", UserName: "Alice Doe", Rating: 5, Comment: "great",
	}, got)
	resp := decode(t, rec)
	assert.Equal(t, float64(2), resp["numOfReviews"])
	assert.Equal(t, 3.5, resp["ratings"])
}

func TestReviewHandler_Upsert_Errors(t *testing.T) {
	users := &stubUserService{
		profileFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID, Name: "Alice Doe"}, nil
		},
	}
	reviews := &stubReviewService{
		upsertFn: func(ctx context.Context, in ports.UpsertReviewInput) (domain.ReviewSummary, error) {
			return domain.ReviewSummary{}, domain.ErrReviewConflict
		},
	}
	h := NewReviewHandler(reviews, users)

	c, _ := newContext(http.MethodPut, "/api/v1/review", `{"productId":"p1","rating":5}`, "")
	assert.ErrorIs(t, h.Upsert(c), domain.ErrUnauthenticated)

	c, _ = newContext(http.MethodPut, "/api/v1/review", `{"rating":5}`, "u1")
	assert.ErrorIs(t, h.Upsert(c), domain.ErrValidation)

	c, _ = newContext(http.MethodPut, "/api/v1/review", `{"productId":"p1","rating":5}`, "u1")
	assert.ErrorIs(t, h.Upsert(c), domain.ErrWriteConflict)
}

func TestReviewHandler_ListAndDelete(t *testing.T) {
	reviews := &stubReviewService{
		listFn: func(ctx context.Context, productID string) ([]domain.Review, error) {
			if productID != "p1" {
				return nil, domain.ErrProductNotFound
			}
			return []domain.Review{{ID: "r1", Rating: 4}}, nil
		},
		deleteFn: func(ctx context.Context, productID, reviewID string) (domain.ReviewSummary, error) {
			assert.Equal(t, "p1", productID)
			assert.Equal(t, "r1", reviewID)
			return domain.ReviewSummary{}, nil
		},
	}
	h := NewReviewHandler(reviews, &stubUserService{})

	c, rec := newContext(http.MethodGet, "/api/v1/reviews?id=p1", "", "u1")
	require.NoError(t, h.List(c))
	assert.Len(t, decode(t, rec)["reviews"], 1)

	c, _ = newContext(http.MethodGet, "/api/v1/reviews?id=nope", "", "u1")
	assert.ErrorIs(t, h.List(c), domain.ErrNotFound)

	c, rec = newContext(http.MethodDelete, "/api/v1/reviews?productId=p1&id=r1", "", "u1")
	require.NoError(t, h.Delete(c))
	resp := decode(t, rec)
	assert.Equal(t, float64(0), resp["numOfReviews"])
	assert.Equal(t, float64(0), resp["ratings"])
}
