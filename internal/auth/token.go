package auth

import (
	stderrors "errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"quizhub/internal/errors"
	"quizhub/internal/logging"
)

// ResetPurpose tags tokens that may only be used to reset a password.
const ResetPurpose = "reset"

// Token rejection reasons. They are logged and counted, never returned to callers.
const (
	ReasonEmpty            = "TOKEN_EMPTY"
	ReasonExpired          = "TOKEN_EXPIRED"
	ReasonMalformed        = "TOKEN_MALFORMED"
	ReasonSignatureInvalid = "TOKEN_SIGNATURE_INVALID"
	ReasonInvalid          = "TOKEN_INVALID"
	ReasonWrongPurpose     = "TOKEN_WRONG_PURPOSE"
	ReasonEmailMismatch    = "TOKEN_EMAIL_MISMATCH"
)

const (
	purposeSession = "session"
	purposeReset   = ResetPurpose
)

// ErrInvalidToken is the only error token verification ever returns.
var ErrInvalidToken = errors.Unauthorized("invalid token")

// SessionClaims identify an authenticated user.
type SessionClaims struct {
	UserID  string `json:"id"`
	Email   string `json:"email"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// UserUUID returns the user id carried by the claims.
func (c *SessionClaims) UserUUID() uuid.UUID {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// ResetClaims authorize a password reset for one email address.
type ResetClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// RejectionRecorder counts rejected tokens.
type RejectionRecorder interface {
	TokenRejected(purpose, reason string)
}

// TokenService issues and verifies session and reset tokens.
type TokenService interface {
	IssueSessionToken(userID uuid.UUID, email string) (string, error)
	IssueResetToken(email string) (string, error)
	VerifySessionToken(presented string) (*SessionClaims, error)
	VerifyResetToken(presented, expectedEmail string) (*ResetClaims, error)
}

type tokenService struct {
	signer   Signer
	log      logrus.FieldLogger
	recorder RejectionRecorder
}

// NewTokenService creates a token service. recorder may be nil.
func NewTokenService(signer Signer, log logrus.FieldLogger, recorder RejectionRecorder) TokenService {
	return &tokenService{
		signer:   signer,
		log:      log.WithField("component", "token_service"),
		recorder: recorder,
	}
}

func (s *tokenService) IssueSessionToken(userID uuid.UUID, email string) (string, error) {
	claims := &SessionClaims{
		UserID:           userID.String(),
		Email:            email,
		RegisteredClaims: s.signer.Lifetime(),
	}
	token, err := s.signer.Sign(claims)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").With("purpose", purposeSession).Wrap(err)
	}
	return token, nil
}

func (s *tokenService) IssueResetToken(email string) (string, error) {
	claims := &ResetClaims{
		Email:            email,
		Purpose:          ResetPurpose,
		RegisteredClaims: s.signer.Lifetime(),
	}
	token, err := s.signer.Sign(claims)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").With("purpose", purposeReset).Wrap(err)
	}
	return token, nil
}

// VerifySessionToken accepts the token with or without a "Bearer " prefix.
func (s *tokenService) VerifySessionToken(presented string) (*SessionClaims, error) {
	token := strings.TrimSpace(strings.TrimPrefix(presented, "Bearer "))
	if token == "" {
		return nil, s.reject(purposeSession, ReasonEmpty, nil)
	}

	claims := &SessionClaims{}
	if err := s.signer.Parse(token, claims); err != nil {
		return nil, s.reject(purposeSession, classify(err), err)
	}
	// Reset tokens carry a purpose and no user id.
	if claims.Purpose != "" {
		return nil, s.reject(purposeSession, ReasonWrongPurpose, nil)
	}
	if claims.UserUUID() == uuid.Nil {
		return nil, s.reject(purposeSession, ReasonInvalid, nil)
	}
	return claims, nil
}

// VerifyResetToken accepts the token with or without a "Bearer " prefix.
func (s *tokenService) VerifyResetToken(presented, expectedEmail string) (*ResetClaims, error) {
	token := strings.TrimSpace(strings.TrimPrefix(presented, "Bearer "))
	if token == "" {
		return nil, s.reject(purposeReset, ReasonEmpty, nil)
	}

	claims := &ResetClaims{}
	if err := s.signer.Parse(token, claims); err != nil {
		return nil, s.reject(purposeReset, classify(err), err)
	}
	if claims.Purpose != ResetPurpose {
		return nil, s.reject(purposeReset, ReasonWrongPurpose, nil)
	}
	if claims.Email != expectedEmail {
		return nil, s.reject(purposeReset, ReasonEmailMismatch, nil)
	}
	return claims, nil
}

func (s *tokenService) reject(purpose, reason string, cause error) error {
	builder := oops.Code(reason).With("purpose", purpose)
	var diag error
	if cause != nil {
		diag = builder.Wrap(cause)
	} else {
		diag = builder.Errorf("token rejected")
	}
	logging.WithError(s.log, diag).Warn("token rejected")

	if s.recorder != nil {
		s.recorder.TokenRejected(purpose, reason)
	}
	return ErrInvalidToken
}

func classify(err error) string {
	switch {
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonSignatureInvalid
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case stderrors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	default:
		return ReasonInvalid
	}
}
