package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatlab/lab-seat-reservation/internal/repository"
	"github.com/seatlab/lab-seat-reservation/internal/service"
)

// TechnicianHandler serves the staff-only operations: the global
// reservation list, walk-in bookings and no-show removal.  Routes are
// gated by RequireRole(technician), and the repository re-checks the
// role against the accounts table.
type TechnicianHandler struct {
	Reservations *repository.ReservationRepo
}

func NewTechnicianHandler(r *repository.ReservationRepo) *TechnicianHandler {
	return &TechnicianHandler{Reservations: r}
}

type walkInReq struct {
	StudentID string `json:"student_id" validate:"required"`
	Lab       string `json:"lab"`
	Seat      string `json:"seat" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Slot      string `json:"slot" validate:"required"`
}

// ListAll returns every reservation in the system.  Anonymous bookings
// come back masked; staff see the seat is held, not by whom.
func (h *TechnicianHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Reservations.ListAll(ctx, sessionEmail(c))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateWalkIn books a seat on behalf of a student at the counter.  An
// unregistered student number still gets a reservation under a
// synthetic walk-in identity.
func (h *TechnicianHandler) CreateWalkIn(c echo.Context) error {
	var req walkInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.CreateWalkIn(ctx, repository.WalkInInput{
		TechnicianEmail: sessionEmail(c),
		StudentID:       req.StudentID,
		Lab:             req.Lab,
		Seat:            req.Seat,
		Date:            req.Date,
		Slot:            req.Slot,
	})
	if err != nil {
		return repoError(c, err)
	}

	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		_ = service.PublishReservationBooked(pctx, res)
	}()

	return c.JSON(http.StatusCreated, echo.Map{"reservation": res})
}

// RemoveNoShow clears a booking whose student never turned up.  Only
// valid inside the grace window after the slot starts; outside it the
// reservation is left untouched.
func (h *TechnicianHandler) RemoveNoShow(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.RemoveNoShow(ctx, c.Param("id"), sessionEmail(c)); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
