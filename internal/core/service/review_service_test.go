package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

func newReviewFixture(t *testing.T) (*stubProductRepo, *ReviewService, string) {
	t.Helper()
	repo := newStubProductRepo()
	p, err := domain.NewProduct(domain.ProductInput{
		Name:        "Mechanical Keyboard",
		Description: "Tactile switches",
		Price:       decimal.NewFromInt(120),
		CategoryID:  "c1",
	}, "admin", time.Now())
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), p)
	require.NoError(t, err)

	svc := NewReviewService(repo, zerolog.Nop())
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("r%d", n)
	}
	return repo, svc, created.ID
}

func review(productID, userID string, rating int) ports.UpsertReviewInput {
	return ports.UpsertReviewInput{ProductID: productID, UserID: userID, UserName: userID, Rating: rating, Comment: "ok"}
}

func TestReviewService_AggregatesFollowMutations(t *testing.T) {
	_, svc, pid := newReviewFixture(t)
	ctx := context.Background()

	_, err := svc.UpsertReview(ctx, review(pid, "A", 4))
	require.NoError(t, err)
	sum, err := svc.UpsertReview(ctx, review(pid, "B", 2))
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewSummary{NumOfReviews: 2, Ratings: 3.0}, sum)

	sum, err = svc.UpsertReview(ctx, review(pid, "A", 5))
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewSummary{NumOfReviews: 2, Ratings: 3.5}, sum)

	reviews, err := svc.ListReviews(ctx, pid)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	var bID string
	for _, r := range reviews {
		if r.UserID == "B" {
			bID = r.ID
		}
	}
	require.NotEmpty(t, bID)

	sum, err = svc.DeleteReview(ctx, pid, bID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewSummary{NumOfReviews: 1, Ratings: 5.0}, sum)
}

func TestReviewService_DeleteLastReviewYieldsZero(t *testing.T) {
	_, svc, pid := newReviewFixture(t)
	ctx := context.Background()

	_, err := svc.UpsertReview(ctx, review(pid, "A", 3))
	require.NoError(t, err)

	sum, err := svc.DeleteReview(ctx, pid, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewSummary{}, sum)
}

func TestReviewService_DeleteUnknownReviewIsNoop(t *testing.T) {
	_, svc, pid := newReviewFixture(t)
	ctx := context.Background()

	_, err := svc.UpsertReview(ctx, review(pid, "A", 3))
	require.NoError(t, err)

	sum, err := svc.DeleteReview(ctx, pid, "does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewSummary{NumOfReviews: 1, Ratings: 3}, sum)
}

func TestReviewService_Validation(t *testing.T) {
	_, svc, pid := newReviewFixture(t)
	ctx := context.Background()

	_, err := svc.UpsertReview(ctx, review(pid, "A", 6))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpsertReview(ctx, review("missing", "A", 3))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ListReviews(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewService_RetriesOnVersionConflict(t *testing.T) {
	repo, svc, pid := newReviewFixture(t)
	repo.conflicts = 2

	sum, err := svc.UpsertReview(context.Background(), review(pid, "A", 4))
	require.NoError(t, err)
	assert.Equal(t, 3, repo.saves)
	assert.Equal(t, domain.ReviewSummary{NumOfReviews: 1, Ratings: 4}, sum)
}

func TestReviewService_GivesUpAfterRepeatedConflicts(t *testing.T) {
	repo, svc, pid := newReviewFixture(t)
	repo.conflicts = maxReviewAttempts

	_, err := svc.UpsertReview(context.Background(), review(pid, "A", 4))
	assert.ErrorIs(t, err, domain.ErrWriteConflict)
	assert.Equal(t, maxReviewAttempts, repo.saves)

	reviews, err := svc.ListReviews(context.Background(), pid)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
