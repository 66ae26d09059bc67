package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/ecommerce-api/internal/core/domain"
	"github.com/storefront/ecommerce-api/internal/core/ports"
)

const rollbackTimeout = 5 * time.Second

// UserService implements registration, login, the password lifecycle and
// account administration.
type UserService struct {
	repo     ports.UserRepository
	tokens   ports.TokenIssuer
	resets   *ResetTokenService
	mailer   ports.Mailer
	notifier ports.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewUserService(
	repo ports.UserRepository,
	tokens ports.TokenIssuer,
	resets *ResetTokenService,
	mailer ports.Mailer,
	notifier ports.Notifier,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		repo:     repo,
		tokens:   tokens,
		resets:   resets,
		mailer:   mailer,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func hashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func passwordMatches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *UserService) session(user *domain.User) (*ports.AuthResult, error) {
	tok, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &ports.AuthResult{User: user, Token: tok}, nil
}

// Register creates a customer account and logs it in.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	user, err := domain.NewUser(name, email, password, s.now())
	if err != nil {
		return nil, err
	}
	if user.PasswordHash, err = hashPassword(password); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	s.notifier.Notify(ports.EmailMessage{
		To:      created.Email,
		Subject: "Welcome to Ecommerce",
		Text:    fmt.Sprintf("Hi %s,\n\nyour account has been created.", created.Name),
	})
	return s.session(created)
}

// Authenticate verifies email and password. Unknown emails and wrong passwords
// produce the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}
	if !passwordMatches(user.PasswordHash, password) {
		return nil, domain.ErrBadCredentials
	}
	return s.session(user)
}

// ChangePassword replaces the password after checking the old one and issues
// a fresh session.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmPassword string) (*ports.AuthResult, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !passwordMatches(user.PasswordHash, oldPassword) {
		return nil, domain.ErrOldPasswordWrong
	}
	if newPassword != confirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	s.log.Info().Str("user_id", user.ID).Msg("password changed")
	s.notifier.Notify(ports.EmailMessage{
		To:      user.Email,
		Subject: "Your password was changed",
		Text:    "Your Ecommerce password was just changed. If this was not you, reset it immediately.",
	})
	return s.session(user)
}

// ForgotPassword issues a reset token and emails the reset link. If the email
// cannot be sent the token is revoked before the error is returned.
func (s *UserService) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}

	tok, err := s.resets.Issue(ctx, user.ID)
	if err != nil {
		return err
	}

	link := strings.TrimRight(resetURLBase, "/") + "/" + tok.Plaintext
	msg := ports.EmailMessage{
		To:      user.Email,
		Subject: "Ecommerce Password Recovery",
		Text: "Your password reset token is :- \n\n" + link +
			"\n\nIf you have not requested this email then, please ignore it",
	}
	if sendErr := s.mailer.Send(ctx, msg); sendErr != nil {
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
		defer cancel()
		if rbErr := s.resets.Revoke(rbCtx, user.ID); rbErr != nil {
			s.log.Error().Err(rbErr).Str("user_id", user.ID).Msg("failed to revoke reset token after mail failure")
		}
		s.log.Warn().Err(sendErr).Str("user_id", user.ID).Msg("reset email not sent")
		return domain.Infrastructure("Email could not be sent", sendErr)
	}

	s.log.Info().Str("user_id", user.ID).Msg("reset email sent")
	return nil
}

// ResetPassword sets a new password using a reset token and logs the user in.
func (s *UserService) ResetPassword(ctx context.Context, token, password, confirmPassword string) (*ports.AuthResult, error) {
	user, err := s.resets.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if password != confirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	updated, err := s.resets.Consume(ctx, user.ID, token, hash)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", updated.ID).Msg("password reset")
	return s.session(updated)
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile changes the caller's own name and email.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	name, email, err = validateIdentity(name, email)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateProfile(ctx, userID, name, email, user.Role)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("User does not exist with Id: " + id)
	}
	return user, err
}

// UpdateRole overwrites name, email and role. Authorization is the caller's job.
func (s *UserService) UpdateRole(ctx context.Context, id, name, email, role string) (*domain.User, error) {
	name, email, err := validateIdentity(name, email)
	if err != nil {
		return nil, err
	}
	if !domain.ValidRole(role) {
		return nil, domain.Validation("Role must be one of: user, admin")
	}
	user, err := s.repo.UpdateProfile(ctx, id, name, email, role)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("User does not exist with Id: " + id)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Str("role", role).Msg("user role updated")
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func validateIdentity(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if err := domain.ValidateName(name); err != nil {
		return "", "", err
	}
	if err := domain.ValidateEmail(email); err != nil {
		return "", "", err
	}
	return name, email, nil
}
