package router

import (
	"github.com/labstack/echo/v4"

	"github.com/seatlab/lab-seat-reservation/internal/handler"
	"github.com/seatlab/lab-seat-reservation/internal/middleware"
)

// RegisterStudent registers the endpoints any authenticated user may
// call: booking and managing their own reservations, and maintaining
// their own account.  Technicians pass through too since every staff
// member also holds an account of their own.
func RegisterStudent(e *echo.Echo, r *handler.ReservationHandler, a *handler.AccountHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.POST("/reservations", r.Create)
	g.GET("/my-reservations", r.ListMine)
	g.GET("/reservations/:id", r.Get)
	g.DELETE("/reservations/:id", r.Cancel)
	g.GET("/reservations/:id/rebook", r.Rebook)

	g.PATCH("/account", a.UpdateProfile)
	g.PUT("/account/password", a.UpdatePassword)
	g.DELETE("/account", a.DeleteAccount)
}
