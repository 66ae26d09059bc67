package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// UserLookup resolves the account behind a session.
type UserLookup interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

// Auth verifies the session token, then loads the account it names and
// injects its id and current role into the context. A token whose account
// was deleted is treated as no session. The token is read from the session
// cookie, falling back to an "Authorization: Bearer" header.
func Auth(tokens ports.TokenIssuer, users UserLookup, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := tokens.Verify(sessionToken(c, cookieName))
			if err != nil {
				return err
			}

			user, err := users.Profile(c.Request().Context(), claims.UserID)
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrLoginRequired
			}
			if err != nil {
				return err
			}

			c.Set(CtxUserID, user.ID)
			c.Set(CtxRole, user.Role)
			return next(c)
		}
	}
}

func sessionToken(c echo.Context, cookieName string) string {
	if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// UserID returns the authenticated user id, or "" outside Auth.
func UserID(c echo.Context) string {
	id, _ := c.Get(CtxUserID).(string)
	return id
}

// Role returns the authenticated role, or "" outside Auth.
func Role(c echo.Context) string {
	role, _ := c.Get(CtxRole).(string)
	return role
}

// RequireUser is a guard for handlers mounted behind Auth.
func RequireUser(c echo.Context) (string, error) {
	id := UserID(c)
	if id == "" {
		return "", domain.ErrLoginRequired
	}
	return id, nil
}
