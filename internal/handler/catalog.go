package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seatlab/lab-seat-reservation/internal/catalog"
	"github.com/seatlab/lab-seat-reservation/internal/repository"
)

// CatalogHandler serves the static reference data and the seat
// availability grid.  Everything here is read-only and safe to cache.
type CatalogHandler struct {
	Reservations *repository.ReservationRepo
}

func NewCatalogHandler(r *repository.ReservationRepo) *CatalogHandler {
	return &CatalogHandler{Reservations: r}
}

type labResp struct {
	Code           string   `json:"code"`
	Building       string   `json:"building"`
	BuildingKey    string   `json:"building_key"`
	TotalSeats     int      `json:"total_seats"`
	Rows           []string `json:"rows"`
	Columns        int      `json:"columns"`
	OperatingHours string   `json:"operating_hours"`
}

func toLabResp(l catalog.Lab) labResp {
	return labResp{
		Code:           l.Code,
		Building:       l.Building,
		BuildingKey:    l.BuildingKey,
		TotalSeats:     l.TotalSeats,
		Rows:           l.Rows,
		Columns:        l.Columns,
		OperatingHours: l.OperatingHours,
	}
}

// ListLabs returns every lab with its grid geometry.
func (h *CatalogHandler) ListLabs(c echo.Context) error {
	labs := catalog.Labs()
	items := make([]labResp, 0, len(labs))
	for _, l := range labs {
		items = append(items, toLabResp(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetLab returns a single lab.  An unknown code resolves to the
// default lab, so this endpoint never 404s.
func (h *CatalogHandler) GetLab(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"item": toLabResp(catalog.LabByCode(c.Param("code")))})
}

// ListSlots returns the bookable 30-minute slot labels.
func (h *CatalogHandler) ListSlots(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": catalog.TimeSlots()})
}

// ListColleges returns the college enumeration used by registration.
func (h *CatalogHandler) ListColleges(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": catalog.Colleges()})
}

// Availability returns the seat-state partition for ?date= and ?slot=.
// Every seat of the grid appears exactly once as available, occupied
// or reserved.
func (h *CatalogHandler) Availability(c echo.Context) error {
	lab := catalog.LabByCode(c.Param("code"))
	date := c.QueryParam("date")
	slot := c.QueryParam("slot")

	states, err := h.Reservations.Availability(c.Request().Context(), lab.Code, date, slot)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"lab":   lab.Code,
		"date":  date,
		"slot":  slot,
		"seats": states,
	})
}
