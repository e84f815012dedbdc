package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/matildaw/happy-thoughts-api/internal/repository"
	"github.com/matildaw/happy-thoughts-api/internal/utils"
)

const minPasswordLen = 8

// UserHandler bundles dependencies for signup, login and the liked
// thoughts listing.
type UserHandler struct {
	Users      UserStore
	BcryptCost int
}

func NewUserHandler(users UserStore, bcryptCost int) *UserHandler {
	if users == nil {
		panic("nil store passed to NewUserHandler")
	}
	return &UserHandler{Users: users, BcryptCost: bcryptCost}
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResp is the only shape a user is ever exposed as. The password
// hash never leaves the store layer.
type userResp struct {
	Email       string `json:"email"`
	ID          uint64 `json:"id"`
	AccessToken string `json:"accessToken"`
}

// Signup handles POST /users/signup. The duplicate-email rejection uses
// the same generic message as any other validation failure so the
// endpoint cannot be used to probe which emails are registered.
func (h *UserHandler) Signup(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return fail(c, http.StatusBadRequest, "A valid email is required")
	}
	if len(req.Password) < minPasswordLen {
		return fail(c, http.StatusBadRequest, "Password must be at least 8 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, email, req.Password, h.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusBadRequest, "An error occurred when creating the user")
		}
		return fail(c, http.StatusInternalServerError, "Failed to create user")
	}
	return ok(c, http.StatusOK,
		userResp{Email: u.Email, ID: u.ID, AccessToken: u.AccessToken},
		"User created successfully")
}

// Login handles POST /users/login. Unknown email and wrong password are
// deliberately indistinguishable in both status and message.
func (h *UserHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusUnauthorized, "Login failed: wrong email or password")
		}
		return fail(c, http.StatusInternalServerError, "Something went wrong")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Login failed: wrong email or password")
	}
	return ok(c, http.StatusOK,
		userResp{Email: u.Email, ID: u.ID, AccessToken: u.AccessToken},
		"Login successful")
}

// LikedThoughts handles GET /users/:id/thoughts (authenticated). It
// returns the thoughts the target user has liked, resolved to full
// records, newest liked first.
func (h *UserHandler) LikedThoughts(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return fail(c, http.StatusUnauthorized, "Authentication missing or invalid")
	}
	id, valid := parseID(c.Param("id"))
	if !valid {
		return fail(c, http.StatusBadRequest, "Invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Could not fetch user")
	}
	thoughts, err := h.Users.ListLikedThoughts(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Could not fetch liked thoughts")
	}
	return ok(c, http.StatusOK, thoughts, "Success")
}
