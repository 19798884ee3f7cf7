package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatlab/lab-seat-reservation/internal/config"
	"github.com/seatlab/lab-seat-reservation/internal/repository"
)

// AccountHandler serves the profile endpoints of the logged-in user:
// partial profile update, password change and account deletion.
type AccountHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
}

// NewAccountHandler binds the account endpoints to the account store.
// Token revocation on deletion happens inside AccountRepo.Delete, so
// no token store is needed here.
func NewAccountHandler(cfg config.Config, a *repository.AccountRepo) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Accounts: a}
}

type profileReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	College   *string `json:"college"`
	Bio       *string `json:"bio"`
}

type passwordReq struct {
	NewPassword string `json:"new_password" validate:"required"`
}

// UpdateProfile applies a partial update to the caller's own profile.
// Student id, email and account type are immutable and have no DTO
// fields at all.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.UpdateProfile(ctx, sessionEmail(c), repository.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		College:   req.College,
		Bio:       req.Bio,
	})
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": acct.Session()})
}

// UpdatePassword replaces the caller's password.
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	var req passwordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.UpdatePassword(ctx, sessionEmail(c), req.NewPassword, h.Cfg.BcryptCost); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAccount removes the caller's account, all of their
// reservations and every refresh token, ending the session for good.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.Delete(ctx, sessionEmail(c)); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
