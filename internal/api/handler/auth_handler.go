package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/ecommerce-api/internal/api/metrics"
	"github.com/storefront/ecommerce-api/internal/api/middleware"
	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

// AuthHandler serves registration, login and the password lifecycle, plus
// the caller's own profile.
type AuthHandler struct {
	users        ports.UserService
	cookie       SessionCookie
	resetURLBase string
}

// NewAuthHandler builds the handler. When resetURLBase is empty the reset link
// is derived from the request scheme and host.
func NewAuthHandler(users ports.UserService, cookie SessionCookie, resetURLBase string) *AuthHandler {
	return &AuthHandler{users: users, cookie: cookie, resetURLBase: resetURLBase}
}

// observe records the outcome of a credential operation.
func observe(operation string, err error) {
	metrics.AuthOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrInvalidOrExpiredToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrWriteConflict):
		return "conflict"
	default:
		return "error"
	}
}

// Register creates a customer account and logs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Name, email and password"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.users.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	observe("register", err)
	if err != nil {
		return err
	}
	return h.cookie.sendToken(c, http.StatusCreated, res)
}

// Login authenticates with email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	observe("login", err)
	if err != nil {
		return err
	}
	return h.cookie.sendToken(c, http.StatusOK, res)
}

// Logout expires the session cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookie.clear(c)
	return respond(c, http.StatusOK, echo.Map{"message": "Logged Out"})
}

// ForgotPassword emails a password reset link.
//
// @Summary      Request a password reset email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /password/forgot [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err := h.users.ForgotPassword(c.Request().Context(), req.Email, h.resetBase(c))
	observe("password_forgot", err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{
		"message": "Email sent to " + domain.NormalizeEmail(req.Email) + " successfully",
	})
}

func (h *AuthHandler) resetBase(c echo.Context) string {
	if h.resetURLBase != "" {
		return h.resetURLBase
	}
	return c.Scheme() + "://" + c.Request().Host + "/api/v1/password/reset"
}

// ResetPassword sets a new password with a reset token and logs the user in.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token from the email"
// @Param        body   body      resetPasswordRequest  true  "New password and confirmation"
// @Success      200    {object}  authResponse
// @Failure      400    {object}  errorResponse
// @Router       /password/reset/{token} [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.users.ResetPassword(c.Request().Context(), c.Param("token"), req.Password, req.ConfirmPassword)
	observe("password_reset", err)
	if err != nil {
		return err
	}
	return h.cookie.sendToken(c, http.StatusOK, res)
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         profile
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	user, err := h.users.Profile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"user": user})
}

// UpdatePassword changes the caller's password and reissues the session.
//
// @Summary      Change password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      updatePasswordRequest  true  "Old, new and confirmed password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /password/update [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	id, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req updatePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.users.ChangePassword(c.Request().Context(), id, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	observe("password_update", err)
	if err != nil {
		return err
	}
	return h.cookie.sendToken(c, http.StatusOK, res)
}

// UpdateProfile changes the caller's name and email.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      updateProfileRequest  true  "Name and email"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /me/update [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	id, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), id, strings.TrimSpace(req.Name), req.Email)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"user": user})
}
