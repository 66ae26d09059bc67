package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	nameMinLen     = 4
	nameMaxLen     = 30
	passwordMinLen = 8
)

var validate = validator.New()

// Avatar is a reference to an externally stored image.
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// DefaultAvatar is assigned on registration until the user uploads their own.
var DefaultAvatar = Avatar{PublicID: "sample_id", URL: "ProfilePicUrl"}

// User models a customer or administrator account.
type User struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	Role                string    `json:"role"`
	Avatar              Avatar    `json:"avatar"`
	ResetPasswordToken  string    `json:"-"`
	ResetPasswordExpire time.Time `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateName checks the display-name rules.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Validation("Please Enter Your Name")
	}
	n := utf8.RuneCountInString(name)
	if n < nameMinLen {
		return Validation("Name should have more than 4 characters")
	}
	if n > nameMaxLen {
		return Validation("Name cannot exceed 30 characters")
	}
	return nil
}

// ValidateEmail checks that email is present and well formed.
func ValidateEmail(email string) error {
	if email == "" {
		return Validation("Please Enter Your Email")
	}
	if validate.Var(email, "email") != nil {
		return Validation("Please Enter a valid Email")
	}
	return nil
}

// ValidatePassword checks the password strength rule.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < passwordMinLen {
		return Validation("Password should be greater than 8 characters")
	}
	return nil
}

// NewUser builds a customer account from registration input. The password is
// validated but not stored; callers set PasswordHash after hashing.
func NewUser(name, email, password string, now time.Time) (*User, error) {
	email = NormalizeEmail(email)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	return &User{
		Name:      strings.TrimSpace(name),
		Email:     email,
		Role:      RoleUser,
		Avatar:    DefaultAvatar,
		CreatedAt: now.UTC(),
	}, nil
}

// HasValidResetToken reports whether the stored reset digest matches and is still live at now.
func (u *User) HasValidResetToken(digest string, now time.Time) bool {
	return u.ResetPasswordToken != "" && u.ResetPasswordToken == digest && now.Before(u.ResetPasswordExpire)
}
