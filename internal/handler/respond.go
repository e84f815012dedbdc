package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// envelope is the uniform response shape of the API. Failures carry a
// nil response and a fixed human-readable message; store error text is
// never placed in Message.
type envelope struct {
	Success  bool   `json:"success"`
	Response any    `json:"response"`
	Message  string `json:"message"`
}

func ok(c echo.Context, status int, payload any, msg string) error {
	return c.JSON(status, envelope{Success: true, Response: payload, Message: msg})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: false, Response: nil, Message: msg})
}

// parseID validates a path id before any store lookup: it must be a
// non-zero unsigned integer.
func parseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
