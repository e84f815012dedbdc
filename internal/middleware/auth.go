package middleware // reusable HTTP middleware shared by the routers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matildaw/happy-thoughts-api/internal/repository"
)

// TokenResolver is the slice of the user store the auth gate needs: turn
// a presented bearer token into a user, or sql.ErrNoRows.
type TokenResolver interface {
	GetByAccessToken(ctx context.Context, token string) (repository.User, error)
}

const lookupTimeout = 5 * time.Second

// TokenAuth returns an Echo middleware that validates an opaque Bearer
// access token against the user store and injects the resolved identity
// into the request context under "user_id". A missing header and an
// unknown token are distinct 401 responses; a store fault is a 500 so
// infrastructure failures are never mistaken for bad credentials.
func TokenAuth(users TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return failJSON(c, http.StatusUnauthorized, "Missing Authorization header")
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), lookupTimeout)
			defer cancel()
			u, err := users.GetByAccessToken(ctx, token)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return failJSON(c, http.StatusUnauthorized, "Authentication missing or invalid")
				}
				return failJSON(c, http.StatusInternalServerError, "Internal server error")
			}
			c.Set("user_id", u.ID)
			return next(c)
		}
	}
}

// OptionalTokenAuth resolves a bearer token when one is present but never
// rejects the request. The like endpoint uses it so anonymous likes keep
// working while authenticated likes are also recorded on the liker's
// profile.
func OptionalTokenAuth(users TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				ctx, cancel := context.WithTimeout(c.Request().Context(), lookupTimeout)
				u, err := users.GetByAccessToken(ctx, token)
				cancel()
				if err == nil {
					c.Set("user_id", u.ID)
				}
			}
			return next(c)
		}
	}
}

// bearerToken extracts the credential from the Authorization header. The
// "Bearer " prefix is optional to match clients that send the raw token.
func bearerToken(c echo.Context) (string, bool) {
	h := strings.TrimSpace(c.Request().Header.Get("Authorization"))
	if h == "" {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")), true
}

// failJSON writes the standard response envelope from middleware, where
// the handler package's helpers are not importable without a cycle.
func failJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "response": nil, "message": msg})
}
