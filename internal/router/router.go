// Package router maps the HTTP surface onto the handlers.  Routes are
// grouped by who may call them: public browse endpoints, session
// endpoints, student endpoints and technician endpoints.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/seatlab/lab-seat-reservation/internal/handler"
	"github.com/seatlab/lab-seat-reservation/internal/middleware"
)

// RegisterRoutes registers the unauthenticated service endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session lifecycle.  Register, login,
// refresh and logout need no access token; /v1/me does.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
