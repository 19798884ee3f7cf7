package router

import (
	"github.com/labstack/echo/v4"

	"github.com/seatlab/lab-seat-reservation/internal/handler"
	"github.com/seatlab/lab-seat-reservation/internal/middleware"
	"github.com/seatlab/lab-seat-reservation/internal/model"
)

// RegisterTechnician registers the staff-only endpoints under
// /v1/tech.  Every route requires a valid JWT carrying the technician
// role; the repositories re-verify the role against the accounts table
// so a stale token cannot outlive a demotion.
func RegisterTechnician(e *echo.Echo, t *handler.TechnicianHandler, jwtSecret string) {
	g := e.Group(
		"/v1/tech",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.AccountTypeTechnician),
	)
	g.GET("/reservations", t.ListAll)
	g.POST("/walk-ins", t.CreateWalkIn)
	g.DELETE("/reservations/:id/no-show", t.RemoveNoShow)
}
