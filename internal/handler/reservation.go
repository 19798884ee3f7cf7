package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatlab/lab-seat-reservation/internal/repository"
	"github.com/seatlab/lab-seat-reservation/internal/service"
)

// ReservationHandler serves the student-facing reservation lifecycle:
// booking, listing, cancellation and the rebook shortcut.
type ReservationHandler struct {
	Accounts     *repository.AccountRepo
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(a *repository.AccountRepo, r *repository.ReservationRepo) *ReservationHandler {
	return &ReservationHandler{Accounts: a, Reservations: r}
}

type createReservationReq struct {
	Lab       string `json:"lab"`
	Seat      string `json:"seat" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Slot      string `json:"slot" validate:"required"`
	Anonymous bool   `json:"anonymous"`
}

// Create books a seat for the logged-in student.  The owner identity
// comes from the session, never from the body.  A committed booking is
// published to the broker for the audit consumer; publish failures do
// not undo the reservation.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.GetByEmail(ctx, sessionEmail(c))
	if err != nil {
		return repoError(c, err)
	}
	res, err := h.Reservations.Create(ctx, repository.CreateInput{
		UserEmail:     acct.Email,
		UserName:      acct.FirstName + " " + acct.LastName,
		UserStudentID: acct.StudentID,
		Lab:           req.Lab,
		Seat:          req.Seat,
		Date:          req.Date,
		Slot:          req.Slot,
		Anonymous:     req.Anonymous,
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

// ListMine returns the caller's reservations, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Reservations.ListForUser(ctx, sessionEmail(c))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get returns a single reservation, masked if it is anonymous and the
// caller is not its owner.
func (h *ReservationHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, c.Param("id"), sessionEmail(c))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// Cancel moves an upcoming reservation to cancelled.  Ownership and
// state checks live in the repository.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.Cancel(ctx, c.Param("id"), sessionEmail(c))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// Rebook returns the lab and seat of a prior reservation so the client
// can pre-fill a fresh booking form.  No reservation is created here.
func (h *ReservationHandler) Rebook(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lab, seat, err := h.Reservations.RebookHint(ctx, c.Param("id"))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"lab": lab, "seat": seat})
}
