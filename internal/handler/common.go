// Package handler implements the HTTP surface of the reservation
// engine.  Handlers bind and validate request DTOs, call into the
// repositories and translate the repository error taxonomy into HTTP
// statuses with stable error codes the presentation layer can render.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/seatlab/lab-seat-reservation/internal/middleware"
	"github.com/seatlab/lab-seat-reservation/internal/repository"
)

// Validator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate(dto) after binding.
type Validator struct{ v *validator.Validate }

func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (val *Validator) Validate(i interface{}) error {
	if err := val.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// sessionEmail extracts the authenticated email injected by JWTAuth.
// An empty result means the route was misconfigured (no JWT
// middleware) and the handler must refuse with 401.
func sessionEmail(c echo.Context) string {
	email, _ := c.Get(middleware.CtxEmail).(string)
	return email
}

// repoError translates a repository sentinel into the HTTP response
// the presentation layer keys its messages off.  Unknown errors are
// reported as 500 without leaking internals.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": err.Error()})
	case errors.Is(err, repository.ErrInvalidStudentID):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_student_id"})
	case errors.Is(err, repository.ErrInvalidSeatFormat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_seat_format"})
	case errors.Is(err, repository.ErrPastDate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "past_date"})
	case errors.Is(err, repository.ErrDuplicateEmail):
		return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate_email"})
	case errors.Is(err, repository.ErrDuplicateStudentID):
		return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate_student_id"})
	case errors.Is(err, repository.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat_unavailable"})
	case errors.Is(err, repository.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid_state"})
	case errors.Is(err, repository.ErrNotYetEligible):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not_yet_eligible"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
	}
}
