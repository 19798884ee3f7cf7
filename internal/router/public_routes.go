package router

import (
	"github.com/labstack/echo/v4"

	"github.com/seatlab/lab-seat-reservation/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints: lab
// reference data, slot and college enumerations, and the per-slot seat
// availability grid.  Guests can inspect a lab before registering.
// The extra middleware (typically the Redis response cache and the
// token-bucket limiter) is applied to the whole group.
func RegisterPublic(e *echo.Echo, p *handler.CatalogHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/labs", p.ListLabs)
	g.GET("/labs/:code", p.GetLab)
	g.GET("/labs/:code/availability", p.Availability)
	g.GET("/slots", p.ListSlots)
	g.GET("/colleges", p.ListColleges)
}
