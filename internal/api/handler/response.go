package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/ecommerce-api/internal/core/domain"
)

// respond writes the success envelope: {"success": true, ...payload}.
func respond(c echo.Context, code int, payload echo.Map) error {
	if payload == nil {
		payload = echo.Map{}
	}
	payload["success"] = true
	return c.JSON(code, payload)
}

// bind decodes the request body into req and runs struct validation.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Validation("Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return domain.Validation(err.Error())
	}
	return nil
}
