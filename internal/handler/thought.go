package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/matildaw/happy-thoughts-api/internal/queue"
	"github.com/matildaw/happy-thoughts-api/internal/repository"
)

// Message length bounds, counted in runes after trimming whitespace.
const (
	minMessageLen = 5
	maxMessageLen = 140
)

// ThoughtHandler bundles dependencies for the thought endpoints. Events
// may be nil, in which case no activity events are published.
type ThoughtHandler struct {
	Thoughts ThoughtStore
	Users    UserStore
	Events   ActivityPublisher
}

func NewThoughtHandler(thoughts ThoughtStore, users UserStore, events ActivityPublisher) *ThoughtHandler {
	if thoughts == nil || users == nil {
		panic("nil store passed to NewThoughtHandler")
	}
	return &ThoughtHandler{Thoughts: thoughts, Users: users, Events: events}
}

type thoughtReq struct {
	Message string `json:"message"`
}

// validMessage trims the message and checks the length constraint.
func validMessage(raw string) (string, bool) {
	msg := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(msg)
	return msg, n >= minMessageLen && n <= maxMessageLen
}

// List handles GET /thoughts. Optional query params: hearts (minimum
// like count), sort (date|likes) and order (asc|desc). At most 20
// thoughts are returned; no matches is a success with an empty list.
func (h *ThoughtHandler) List(c echo.Context) error {
	q, err := repository.BuildThoughtQuery(
		c.QueryParam("hearts"), c.QueryParam("sort"), c.QueryParam("order"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "hearts must be a non-negative number")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	thoughts, err := h.Thoughts.List(ctx, q)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Could not fetch thoughts")
	}
	return ok(c, http.StatusOK, thoughts, "Success")
}

// Get handles GET /thoughts/:id.
func (h *ThoughtHandler) Get(c echo.Context) error {
	id, valid := parseID(c.Param("id"))
	if !valid {
		return fail(c, http.StatusBadRequest, "Invalid thought id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Thoughts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Thought not found")
		}
		return fail(c, http.StatusInternalServerError, "Could not fetch thought")
	}
	return ok(c, http.StatusOK, t, "Success")
}

// Create handles POST /thoughts (authenticated). Hearts and the creation
// timestamp are always server-assigned.
func (h *ThoughtHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Authentication missing or invalid")
	}
	var req thoughtReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	msg, valid := validMessage(req.Message)
	if !valid {
		return fail(c, http.StatusBadRequest, "Message must be between 5 and 140 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Thoughts.Create(ctx, userID, msg)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Couldn't create thought")
	}
	h.publish(c, "created", t)
	return ok(c, http.StatusCreated, t, "Thought created successfully")
}

// Like handles POST /thoughts/:id/like. The increment happens as one
// atomic store operation, so every call adds exactly one heart even
// under concurrent likes. Anyone may like; when the request carries a
// valid bearer token the thought is also recorded on the liker's
// profile.
func (h *ThoughtHandler) Like(c echo.Context) error {
	id, valid := parseID(c.Param("id"))
	if !valid {
		return fail(c, http.StatusBadRequest, "Invalid thought id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Thoughts.Like(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "Thought not found")
		}
		return fail(c, http.StatusInternalServerError, "Couldn't like thought")
	}
	if userID, err := getUserID(c); err == nil {
		// Best effort: a failed profile write must not fail the like.
		_ = h.Users.AddLikedThought(ctx, userID, id)
	}
	h.publish(c, "liked", t)
	return ok(c, http.StatusOK, t, "Thought liked successfully")
}

// Update handles PATCH/PUT /thoughts/:id (authenticated, owner only).
func (h *ThoughtHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Authentication missing or invalid")
	}
	id, valid := parseID(c.Param("id"))
	if !valid {
		return fail(c, http.StatusBadRequest, "Invalid thought id")
	}
	var req thoughtReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	msg, valid := validMessage(req.Message)
	if !valid {
		return fail(c, http.StatusBadRequest, "Message must be between 5 and 140 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Thoughts.UpdateMessage(ctx, id, userID, msg)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fail(c, http.StatusNotFound, "Thought not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, "You can only update your own thoughts")
		default:
			return fail(c, http.StatusInternalServerError, "Error editing thought")
		}
	}
	return ok(c, http.StatusOK, t, "Thought updated successfully")
}

// Delete handles DELETE /thoughts/:id (authenticated, owner only). The
// deleted record is returned; the delete is hard.
func (h *ThoughtHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Authentication missing or invalid")
	}
	id, valid := parseID(c.Param("id"))
	if !valid {
		return fail(c, http.StatusBadRequest, "Invalid thought id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t, err := h.Thoughts.Delete(ctx, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fail(c, http.StatusNotFound, "Thought not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, "You can only delete your own thoughts")
		default:
			return fail(c, http.StatusInternalServerError, "Couldn't delete thought")
		}
	}
	h.publish(c, "deleted", t)
	return ok(c, http.StatusOK, t, "Thought deleted successfully")
}

func (h *ThoughtHandler) publish(c echo.Context, action string, t repository.Thought) {
	if h.Events == nil {
		return
	}
	_ = h.Events.PublishThoughtEvent(c.Request().Context(), queue.ThoughtEvent{
		Action:     action,
		ThoughtID:  t.ID,
		UserID:     t.UserID,
		Hearts:     t.Hearts,
		Message:    t.Message,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
