package auth

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Additional-Code/rentcamp/internal/presentation/http/response"
	"github.com/Additional-Code/rentcamp/pkg/errorbank"
)

const principalKey = "auth.principal"

// AdminMiddleware gates routes to bearers with administrator privileges.
type AdminMiddleware echo.MiddlewareFunc

// NewAdminMiddleware wraps echo's key-auth middleware around the verifier.
func NewAdminMiddleware(v Verifier) AdminMiddleware {
	return AdminMiddleware(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(key string, c echo.Context) (bool, error) {
			p, err := v.Verify(c.Request().Context(), key)
			if errors.Is(err, ErrInvalidToken) {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			if !p.Admin {
				return false, nil
			}
			c.Set(principalKey, p)
			return true, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return response.New(c).
				WithError(errorbank.Unauthorized("administrator credentials required", errorbank.WithCause(err))).
				Build()
		},
	}))
}

// PrincipalFrom returns the principal stored by the admin middleware.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}
