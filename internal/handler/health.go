package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

// Health is a plain health check for load balancers and monitoring.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Root returns a welcome message together with the registered routes, so
// the API is self-describing when opened in a browser.
func Root(e *echo.Echo) echo.HandlerFunc {
	type endpoint struct {
		Method string `json:"method"`
		Path   string `json:"path"`
	}
	return func(c echo.Context) error {
		routes := e.Routes()
		endpoints := make([]endpoint, 0, len(routes))
		for _, r := range routes {
			endpoints = append(endpoints, endpoint{Method: r.Method, Path: r.Path})
		}
		sort.Slice(endpoints, func(i, j int) bool {
			if endpoints[i].Path != endpoints[j].Path {
				return endpoints[i].Path < endpoints[j].Path
			}
			return endpoints[i].Method < endpoints[j].Method
		})
		return c.JSON(http.StatusOK, echo.Map{
			"message":   "Welcome to the Happy Thoughts API",
			"endpoints": endpoints,
		})
	}
}
