// Package repository implements MySQL-backed stores for thoughts and
// users. Sentinel errors defined here let handlers distinguish failure
// scenarios without inspecting driver error strings: ErrForbidden maps to
// HTTP 403, ErrEmailExists to the generic signup rejection and
// ErrInvalidQuery to a 400 validation error. Absent rows are reported as
// sql.ErrNoRows so callers can use the standard sentinel.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts to mutate a thought
// they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when signup collides with an already
// registered (case-insensitively equal) email.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidQuery is returned when list query parameters cannot be
// translated into a store query (e.g. a non-numeric minimum hearts value).
var ErrInvalidQuery = errors.New("invalid query parameter")
