package department

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/elettil/hospital/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/departments", h.ListView)
}

func (h *Handler) ListView(c echo.Context) error {
	view, err := h.svc.View(c.Request().Context(), pagination.ViewState(c, ""))
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}
