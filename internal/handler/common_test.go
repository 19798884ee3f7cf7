package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatlab/lab-seat-reservation/internal/repository"
)

func TestRepoErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{repository.ErrValidation, http.StatusBadRequest, "validation_error"},
		{fmt.Errorf("%w: wrapped detail", repository.ErrValidation), http.StatusBadRequest, "validation_error"},
		{repository.ErrInvalidStudentID, http.StatusBadRequest, "invalid_student_id"},
		{repository.ErrInvalidSeatFormat, http.StatusBadRequest, "invalid_seat_format"},
		{repository.ErrPastDate, http.StatusBadRequest, "past_date"},
		{repository.ErrDuplicateEmail, http.StatusConflict, "duplicate_email"},
		{repository.ErrDuplicateStudentID, http.StatusConflict, "duplicate_student_id"},
		{repository.ErrSeatUnavailable, http.StatusConflict, "seat_unavailable"},
		{repository.ErrInvalidState, http.StatusConflict, "invalid_state"},
		{repository.ErrNotYetEligible, http.StatusConflict, "not_yet_eligible"},
		{repository.ErrForbidden, http.StatusForbidden, "forbidden"},
		{repository.ErrNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("database went away"), http.StatusInternalServerError, "internal_error"},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, repoError(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.code)
		})
	}
}

func TestValidatorRejectsMissingFields(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&loginReq{Email: "not-an-email", Password: "x"})
	assert.Error(t, err)
	err = v.Validate(&loginReq{Email: "ana@dlsu.edu.ph", Password: "pw"})
	assert.NoError(t, err)
}
