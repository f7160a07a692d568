package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"quizhub/internal/auth"
	"quizhub/internal/errors"
	"quizhub/internal/model"
	"quizhub/internal/notify"
	"quizhub/internal/repository"
)

// Login outcomes reported to the LoginRecorder.
const (
	loginSuccess     = "success"
	loginNotFound    = "not_found"
	loginBadPassword = "bad_password"
	loginError       = "error"
)

// LoginRecorder counts login attempts by outcome.
type LoginRecorder interface {
	LoginAttempt(outcome string)
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User  model.PublicUser `json:"user"`
	Token string           `json:"token"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ValidateBearerRequest(ctx context.Context, authorization string) (*auth.SessionClaims, error)
	RequestPasswordReset(ctx context.Context, email string) (*notify.Delivery, error)
	ConfirmPasswordReset(ctx context.Context, email, token, newPassword string) (*model.PublicUser, error)
}

type authService struct {
	users      repository.UserRepository
	hasher     auth.PasswordHasher
	tokens     auth.TokenService
	dispatcher notify.Dispatcher
	log        logrus.FieldLogger
	recorder   LoginRecorder
}

// NewAuthService creates a new authentication service. recorder may be nil.
func NewAuthService(
	users repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens auth.TokenService,
	dispatcher notify.Dispatcher,
	log logrus.FieldLogger,
	recorder LoginRecorder,
) AuthService {
	return &authService{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		dispatcher: dispatcher,
		log:        log.WithField("component", "auth_service"),
		recorder:   recorder,
	}
}

// Login authenticates a user and returns a session token. An unknown email
// is reported as not found, a wrong password as unauthorized.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		s.record(loginNotFound)
		return nil, errors.NotFound("User with e-mail address %s not found", email)
	}
	if err != nil {
		s.record(loginError)
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.record(loginBadPassword)
		return nil, errors.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.IssueSessionToken(user.ID, user.Email)
	if err != nil {
		s.record(loginError)
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s.record(loginSuccess)
	s.log.WithField("user_id", user.ID).Debug("user logged in")
	return &LoginResult{User: user.Public(), Token: token}, nil
}

// ValidateBearerRequest resolves an Authorization header into session claims.
// A missing or malformed header is treated as an empty token.
func (s *authService) ValidateBearerRequest(ctx context.Context, authorization string) (*auth.SessionClaims, error) {
	return s.tokens.VerifySessionToken(bearerToken(authorization))
}

// RequestPasswordReset mails a reset token. It does not check that the email belongs to a user.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) (*notify.Delivery, error) {
	return s.dispatcher.SendResetEmail(ctx, email)
}

// ConfirmPasswordReset replaces the password of email when token authorizes it.
func (s *authService) ConfirmPasswordReset(ctx context.Context, email, token, newPassword string) (*model.PublicUser, error) {
	if _, err := s.tokens.VerifyResetToken(token, email); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	err = s.users.UpdatePasswordHash(ctx, user.ID, digest)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	user.PasswordHash = digest
	s.log.WithField("user_id", user.ID).Info("password reset")
	public := user.Public()
	return &public, nil
}

func (s *authService) record(outcome string) {
	if s.recorder != nil {
		s.recorder.LoginAttempt(outcome)
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
