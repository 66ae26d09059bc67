package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

// maxReviewAttempts bounds the read-modify-write loop on version conflicts.
const maxReviewAttempts = 3

type ReviewService struct {
	products ports.ProductRepository
	log      zerolog.Logger
	newID    func() string
}

func NewReviewService(products ports.ProductRepository, log zerolog.Logger) *ReviewService {
	return &ReviewService{products: products, log: log, newID: uuid.NewString}
}

// UpsertReview records the caller's review of a product, replacing an earlier
// one by the same user, and returns the recomputed summary.
func (s *ReviewService) UpsertReview(ctx context.Context, in ports.UpsertReviewInput) (domain.ReviewSummary, error) {
	if err := domain.ValidateRating(in.Rating); err != nil {
		return domain.ReviewSummary{}, err
	}
	if in.UserID == "" {
		return domain.ReviewSummary{}, domain.ErrLoginRequired
	}
	review := domain.Review{
		UserID:  in.UserID,
		Name:    in.UserName,
		Rating:  in.Rating,
		Comment: strings.TrimSpace(in.Comment),
	}

	return s.mutate(ctx, in.ProductID, func(p *domain.Product) {
		r := review
		r.ID = s.newID()
		if p.UpsertReview(r) {
			s.log.Debug().Str("product_id", p.ID).Str("user_id", r.UserID).Msg("review added")
		}
	})
}

// DeleteReview removes a review by id. Deleting an unknown review id is not an
// error; the summary is recomputed regardless.
func (s *ReviewService) DeleteReview(ctx context.Context, productID, reviewID string) (domain.ReviewSummary, error) {
	return s.mutate(ctx, productID, func(p *domain.Product) {
		if !p.RemoveReview(reviewID) {
			s.log.Debug().Str("product_id", p.ID).Str("review_id", reviewID).Msg("review not present")
		}
	})
}

func (s *ReviewService) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Reviews == nil {
		return []domain.Review{}, nil
	}
	return p.Reviews, nil
}

// mutate loads the product, applies fn and saves the review set guarded by the
// product version. Lost races are retried on a fresh read.
func (s *ReviewService) mutate(ctx context.Context, productID string, fn func(*domain.Product)) (domain.ReviewSummary, error) {
	var lastErr error
	for attempt := 1; attempt <= maxReviewAttempts; attempt++ {
		p, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return domain.ReviewSummary{}, err
		}
		fn(p)

		err = s.products.SaveReviews(ctx, p)
		if err == nil {
			return p.Summary(), nil
		}
		if !errors.Is(err, domain.ErrWriteConflict) {
			return domain.ReviewSummary{}, err
		}
		lastErr = err
		s.log.Warn().Str("product_id", productID).Int("attempt", attempt).Msg("review write conflict")
	}
	return domain.ReviewSummary{}, lastErr
}
