package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/ecommerce-api/internal/api/metrics"
	"github.com/storefront/ecommerce-api/internal/api/middleware"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

type ProductHandler struct {
	catalog ports.CatalogService
}

func NewProductHandler(catalog ports.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List searches, filters and paginates the catalog.
//
// @Summary      List products
// @Description  Filters use the field[op]=value form, e.g. price[gte]=10&price[lt]=100.
// @Tags         products
// @Produce      json
// @Param        keyword   query     string  false  "Case-insensitive name search"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Page size (default 20, max 100)"
// @Param        category  query     string  false  "Category ID"
// @Success      200       {object}  productListResponse
// @Failure      400       {object}  errorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	q, err := parseProductQuery(c.QueryParams())
	if err != nil {
		return err
	}

	page, err := h.catalog.ListProducts(c.Request().Context(), q)
	if err != nil {
		return err
	}
	metrics.ProductQueryResults.Observe(float64(page.FilteredCount))

	return respond(c, http.StatusOK, echo.Map{
		"products":              page.Products,
		"productCount":          page.TotalCount,
		"resultPerPage":         page.PageSize,
		"filteredProductsCount": page.FilteredCount,
	})
}

// GroupByCategory returns every product bucketed by category.
//
// @Summary      Products grouped by category
// @Tags         products
// @Produce      json
// @Success      200  {object}  productGroupsResponse
// @Router       /products/group-by-category [get]
func (h *ProductHandler) GroupByCategory(c echo.Context) error {
	groups, err := h.catalog.GroupByCategory(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"groups": groups})
}

// Get returns one product with its category.
//
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /product/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.catalog.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"product": p})
}

// Create adds a product. The caller becomes its creator.
//
// @Summary      Create product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      createProductRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/product/new [post]
func (h *ProductHandler) Create(c echo.Context) error {
	uid, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req createProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.catalog.CreateProduct(c.Request().Context(), req.toInput(), uid)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, echo.Map{"product": p})
}

// Update applies a partial update to a product.
//
// @Summary      Update product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                true  "Product ID"
// @Param        body  body      updateProductRequest  true  "Fields to change"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/product/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.catalog.UpdateProduct(c.Request().Context(), c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"product": p})
}

// Delete removes a product.
//
// @Summary      Delete product
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/product/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.catalog.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"message": "Product Delete Successfully"})
}
