package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storefront/ecommerce-api/internal/core/ports"
)

// SessionCookie describes the cookie that carries the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (s SessionCookie) name() string {
	if s.Name == "" {
		return "token"
	}
	return s.Name
}

// set stores tok in an httpOnly cookie expiring with the token.
func (s SessionCookie) set(c echo.Context, tok ports.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     s.name(),
		Value:    tok.Value,
		Path:     "/",
		Expires:  tok.ExpiresAt,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clear overwrites the session cookie with an empty, already expired one.
func (s SessionCookie) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.name(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sendToken sets the session cookie and writes {success, user, token}.
func (s SessionCookie) sendToken(c echo.Context, code int, res *ports.AuthResult) error {
	s.set(c, res.Token)
	return respond(c, code, echo.Map{"user": res.User, "token": res.Token.Value})
}
