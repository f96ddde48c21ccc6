package saps

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ehr/sapscore/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/scores", h.ListScores)
	api.GET("/scores/summary", h.GetSummary)
	api.GET("/scores/:icustay_id", h.GetScore)
	api.POST("/scores/recompute", h.Recompute)
}

func (h *Handler) ListScores(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListScores(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetScore(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("icustay_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid icustay_id")
	}
	sc, err := h.svc.GetScore(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "score not found")
	}
	return c.JSON(http.StatusOK, sc)
}

func (h *Handler) GetSummary(c echo.Context) error {
	s, err := h.svc.Summarize(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

// Recompute rescores the full population and replaces the stored set.
func (h *Handler) Recompute(c echo.Context) error {
	start := time.Now()
	n, err := h.svc.Recompute(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"stays_scored": n,
		"took":         time.Since(start).String(),
	})
}
