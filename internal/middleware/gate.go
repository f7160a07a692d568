package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"quizhub/internal/auth"
	"quizhub/internal/errors"
)

// BearerValidator resolves an Authorization header into session claims.
type BearerValidator interface {
	ValidateBearerRequest(ctx context.Context, authorization string) (*auth.SessionClaims, error)
}

// AuthenticatedHandler receives the verified claims as an argument.
type AuthenticatedHandler func(c echo.Context, claims *auth.SessionClaims) error

// Gate guards routes behind a bearer token.
type Gate struct {
	validator BearerValidator
}

// NewGate creates a gate backed by validator.
func NewGate(validator BearerValidator) *Gate {
	return &Gate{validator: validator}
}

// Require wraps next so it only runs for requests carrying a valid session token.
func (g *Gate) Require(next AuthenticatedHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		claims, err := g.validator.ValidateBearerRequest(c.Request().Context(), header)
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c, claims)
	}
}
