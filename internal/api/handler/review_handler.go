package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/ecommerce-api/internal/api/metrics"
	"github.com/storefront/ecommerce-api/internal/api/middleware"
	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

type ReviewHandler struct {
	reviews ports.ReviewService
	users   ports.UserService
}

func NewReviewHandler(reviews ports.ReviewService, users ports.UserService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, users: users}
}

func summary(c echo.Context, s domain.ReviewSummary) error {
	return respond(c, http.StatusOK, echo.Map{"numOfReviews": s.NumOfReviews, "ratings": s.Ratings})
}

// Upsert creates or replaces the caller's review of a product.
//
// @Summary      Create or update a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      reviewRequest  true  "Product, rating (1-5) and comment"
// @Success      200   {object}  reviewSummaryResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /review [put]
func (h *ReviewHandler) Upsert(c echo.Context) error {
	uid, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.users.Profile(ctx, uid)
	if err != nil {
		return err
	}

	s, err := h.reviews.UpsertReview(ctx, ports.UpsertReviewInput{
		ProductID: req.ProductID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	metrics.ReviewWritesTotal.WithLabelValues("upsert", resultLabel(err)).Inc()
	if err != nil {
		return err
	}
	return summary(c, s)
}

// List returns the reviews of a product.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Security     CookieAuth
// @Param        id   query     string  true  "Product ID"
// @Success      200  {object}  reviewsResponse
// @Failure      404  {object}  errorResponse
// @Router       /reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	reviews, err := h.reviews.ListReviews(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"reviews": reviews})
}

// Delete removes a review from a product.
//
// @Summary      Delete review
// @Tags         reviews
// @Produce      json
// @Security     CookieAuth
// @Param        productId  query     string  true  "Product ID"
// @Param        id         query     string  true  "Review ID"
// @Success      200        {object}  reviewSummaryResponse
// @Failure      404        {object}  errorResponse
// @Failure      409        {object}  errorResponse
// @Router       /reviews [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	s, err := h.reviews.DeleteReview(c.Request().Context(), c.QueryParam("productId"), c.QueryParam("id"))
	metrics.ReviewWritesTotal.WithLabelValues("delete", resultLabel(err)).Inc()
	if err != nil {
		return err
	}
	return summary(c, s)
}
