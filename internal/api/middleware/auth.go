package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// tokenKey is the echo context key holding the raw bearer token.
const tokenKey = "bearer_token"

// Auth extracts the bearer token from the Authorization header and stores
// it in the request context. Handlers pass the token through the identity
// service's Authorize, which revalidates it and rechecks the directory on
// every request.
func Auth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			c.Set(tokenKey, parts[1])
			return next(c)
		}
	}
}

// Token returns the bearer token stored by Auth, or "" when absent.
func Token(c echo.Context) string {
	token, _ := c.Get(tokenKey).(string)
	return token
}
