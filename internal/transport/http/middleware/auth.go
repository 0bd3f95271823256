package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/Additional-Code/bistro/internal/auth"
	"github.com/Additional-Code/bistro/internal/config"
	"github.com/Additional-Code/bistro/internal/presentation/http/response"
	"github.com/Additional-Code/bistro/pkg/errorbank"
)

// ClaimsKey is the echo context key holding verified token claims.
const ClaimsKey = "auth.claims"

// Module provides the auth middleware to Fx.
var Module = fx.Provide(NewAuth)

// Auth guards owner routes with bearer-token verification.
type Auth struct {
	secret string
}

// NewAuth constructs the middleware from configuration.
func NewAuth(cfg config.Config) *Auth {
	return &Auth{secret: cfg.Auth.JWTSecret}
}

// RequireRole verifies the Authorization header and checks the role claim.
// Missing or malformed tokens are 401; a valid token with the wrong role
// is 403.
func (a *Auth) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return response.New(c).WithError(errorbank.Unauthorized("Authentication required")).Build()
			}

			claims, err := auth.Verify(a.secret, raw)
			if err != nil {
				return response.New(c).WithError(errorbank.Unauthorized("Invalid or expired token")).Build()
			}
			if claims.Role != role {
				return response.New(c).WithError(errorbank.Forbidden("Insufficient permissions")).Build()
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// RequireOwner guards dashboard routes.
func (a *Auth) RequireOwner() echo.MiddlewareFunc {
	return a.RequireRole(auth.RoleOwner)
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
