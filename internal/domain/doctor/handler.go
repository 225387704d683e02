package doctor

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/elettil/hospital/internal/platform/auth"
	"github.com/elettil/hospital/internal/platform/imagecache"
	"github.com/elettil/hospital/pkg/pagination"
)

type Handler struct {
	svc    *Service
	images *imagecache.Cache
}

// NewHandler returns the doctors handler. images may be nil, in which case
// shipped portraits are not served.
func NewHandler(svc *Service, images *imagecache.Cache) *Handler {
	return &Handler{svc: svc, images: images}
}

// RegisterRoutes mounts the public JSON view on api and, when present, the
// portrait route on media.
func (h *Handler) RegisterRoutes(api *echo.Group, media *echo.Group) {
	api.GET("/doctors", h.ListView)
	if media != nil && h.images != nil {
		media.GET("/doctors/:file", h.Portrait)
	}
}

// RegisterAdminRoutes mounts the directory maintenance endpoints. The group is
// expected to carry JWT authentication already.
func (h *Handler) RegisterAdminRoutes(admin *echo.Group) {
	g := admin.Group("", auth.RequireRole("admin", "editor"))
	g.GET("/doctors", h.ListDoctors)
	g.GET("/doctors/:id", h.GetDoctor)
	g.POST("/doctors", h.CreateDoctor)
	g.PUT("/doctors/:id", h.UpdateDoctor)
	g.DELETE("/doctors/:id", h.DeactivateDoctor)
}

// ListView renders the doctors collection the way the page shows it, with the
// show-more state taken from the query string.
func (h *Handler) ListView(c echo.Context) error {
	view, err := h.svc.View(c.Request().Context(), pagination.ViewState(c, ""))
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Portrait(c echo.Context) error {
	file := c.Param("file")
	if !h.svc.Images().PortraitFile(file) {
		return echo.NewHTTPError(http.StatusNotFound, "portrait not found")
	}
	data, err := h.images.Get(file, imagecache.ParseSize(c.QueryParam("size")))
	if err != nil {
		if errors.Is(err, imagecache.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "portrait not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/jpeg", data)
}

// -- Admin Handlers --

func adminStatus(err error, fallback int) int {
	if errors.Is(err, ErrAdminUnavailable) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return fallback
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDoctor(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(adminStatus(err, http.StatusBadRequest), err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(adminStatus(err, http.StatusInternalServerError), err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	doctors, total, err := h.svc.ListDoctors(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(adminStatus(err, http.StatusInternalServerError), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	// Bind onto the stored record so omitted fields keep their values.
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(adminStatus(err, http.StatusInternalServerError), err.Error())
	}
	if err := c.Bind(d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id.String()
	if err := h.svc.UpdateDoctor(c.Request().Context(), d); err != nil {
		return echo.NewHTTPError(adminStatus(err, http.StatusBadRequest), err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeactivateDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeactivateDoctor(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(adminStatus(err, http.StatusInternalServerError), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
