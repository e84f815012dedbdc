// Package handler implements the HTTP surface of the Happy Thoughts API.
// Handlers depend on the small store interfaces below instead of the
// concrete repositories so tests can substitute in-memory fakes; the
// repository package satisfies both.
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matildaw/happy-thoughts-api/internal/queue"
	"github.com/matildaw/happy-thoughts-api/internal/repository"
)

// ThoughtStore is the persistence surface the thought handlers need.
type ThoughtStore interface {
	List(ctx context.Context, q repository.ThoughtQuery) ([]repository.Thought, error)
	GetByID(ctx context.Context, id uint64) (repository.Thought, error)
	Create(ctx context.Context, userID uint64, message string) (repository.Thought, error)
	Like(ctx context.Context, id uint64) (repository.Thought, error)
	UpdateMessage(ctx context.Context, id, callerID uint64, message string) (repository.Thought, error)
	Delete(ctx context.Context, id, callerID uint64) (repository.Thought, error)
}

// UserStore is the persistence surface the user handlers need.
type UserStore interface {
	Create(ctx context.Context, email, password string, cost int) (repository.User, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uint64) (repository.User, error)
	AddLikedThought(ctx context.Context, userID, thoughtID uint64) error
	ListLikedThoughts(ctx context.Context, userID uint64) ([]repository.Thought, error)
}

// ActivityPublisher forwards thought events to the message broker.
// Publishing is best effort; handlers ignore the returned error.
type ActivityPublisher interface {
	PublishThoughtEvent(ctx context.Context, ev queue.ThoughtEvent) error
}

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

// getUserID extracts the authenticated user's id placed in the context by
// the auth middleware.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("no user_id in context")
}
