package cohort

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/cohort/:icustay_id", h.GetFirstDay)
}

// GetFirstDay returns the assembled first-day record for one stay, for
// auditing what the scorer saw.
func (h *Handler) GetFirstDay(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("icustay_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid icustay_id")
	}
	rec, err := h.svc.AssembleOne(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "stay not found")
	}
	return c.JSON(http.StatusOK, rec)
}
