// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/matildaw/happy-thoughts-api/internal/handler"
	"github.com/matildaw/happy-thoughts-api/internal/middleware"
)

// Deps carries everything route registration needs. Limit and Cache may
// be pass-through middleware when Redis is unavailable.
type Deps struct {
	Thoughts *handler.ThoughtHandler
	Users    *handler.UserHandler
	Tokens   middleware.TokenResolver
	Limit    echo.MiddlewareFunc
	Cache    echo.MiddlewareFunc
}

// Register attaches all application routes to the provided Echo
// instance. Mutating thought routes and the liked-thoughts listing sit
// behind the bearer-token gate; the like endpoint resolves a token when
// present but stays open to anonymous callers.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Public thought feed. The list is cached briefly per filter/sort
	// combination.
	e.GET("/thoughts", d.Thoughts.List, d.Cache)
	e.GET("/thoughts/:id", d.Thoughts.Get)
	e.POST("/thoughts/:id/like", d.Thoughts.Like, middleware.OptionalTokenAuth(d.Tokens))

	// Signup and login, rate limited against credential stuffing.
	e.POST("/users/signup", d.Users.Signup, d.Limit)
	e.POST("/users/login", d.Users.Login, d.Limit)

	// Authenticated routes.
	auth := middleware.TokenAuth(d.Tokens)
	e.POST("/thoughts", d.Thoughts.Create, auth)
	e.PATCH("/thoughts/:id", d.Thoughts.Update, auth)
	e.PUT("/thoughts/:id", d.Thoughts.Update, auth)
	e.DELETE("/thoughts/:id", d.Thoughts.Delete, auth)
	e.GET("/users/:id/thoughts", d.Users.LikedThoughts, auth)

	e.GET("/", handler.Root(e))
}
