package site

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/elettil/hospital/internal/domain/department"
	"github.com/elettil/hospital/internal/domain/doctor"
	"github.com/elettil/hospital/internal/platform/collection"
	"github.com/elettil/hospital/internal/platform/imagecache"
	"github.com/elettil/hospital/pkg/pagination"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// acceptCH asks browsers to send the viewport width on later requests so the
// page size matches the layout.
const acceptCH = "Sec-CH-Viewport-Width, Viewport-Width"

// glyphs maps department icon keys onto characters the page can show without
// an icon font.
var glyphs = map[string]string{
	"user":        "👩",
	"stethoscope": "🩺",
	"baby":        "👶",
	"brain":       "🧠",
	"scan-face":   "🧴",
	"eye":         "👁",
	"bone":        "🦴",
	"ear":         "👂",
	"bandage":     "🩹",
	"ambulance":   "🚑",
	"heart-pulse": "🫁",
	"hospital":    "🏥",
}

func glyph(icon string) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return glyphs[department.DefaultIcon]
}

func media(prefix, file string) string {
	return prefix + url.PathEscape(file)
}

var funcs = template.FuncMap{
	"glyph": glyph,
	"media": media,
	"join":  strings.Join,
}

// MediaPrefix is where site images are served.
const MediaPrefix = "/media/site/"

type Handler struct {
	doctors     *doctor.Service
	departments *department.Service
	content     Content
	images      *imagecache.Cache
	tmpl        *template.Template
	logger      zerolog.Logger
	now         func() time.Time
}

// NewHandler parses the page template. images may be nil, in which case site
// images are not served.
func NewHandler(doctors *doctor.Service, departments *department.Service, content Content, images *imagecache.Cache, logger zerolog.Logger) (*Handler, error) {
	tmpl, err := template.New("site").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		doctors:     doctors,
		departments: departments,
		content:     content,
		images:      images,
		tmpl:        tmpl,
		logger:      logger.With().Str("component", "site").Logger(),
		now:         time.Now,
	}, nil
}

func (h *Handler) RegisterRoutes(e *echo.Echo, media *echo.Group) {
	e.GET("/", h.Index)
	e.StaticFS("/static", echo.MustSubFS(staticFS, "static"))
	if media != nil && h.images != nil {
		media.GET("/site/:file", h.Image)
	}
}

// Index renders the home page. Both collection views are mounted for the
// duration of the request and fetched concurrently.
func (h *Handler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	query := c.QueryParams()

	page := Page{
		Content:      h.content,
		Year:         h.now().Year(),
		MediaPrefix:  MediaPrefix,
		ContactError: query.Get(paramContactError) != "",
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := h.doctors.View(gctx, pagination.ViewState(c, "doctors"))
		page.Doctors = v
		return err
	})
	g.Go(func() error {
		v, err := h.departments.View(gctx, pagination.ViewState(c, "departments"))
		page.Departments = v
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, collection.ErrClosed) || ctx.Err() != nil {
			// The client went away; nothing to render.
			h.logger.Debug().Err(err).Msg("page render abandoned")
			return nil
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page.DoctorFilters = doctorFilters(page.Doctors, query)
	page.DoctorsToggle = doctorsToggle(page.Doctors, query)
	page.DepartmentsToggle = departmentsToggle(page.Departments, query)

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index", page); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hdr := c.Response().Header()
	hdr.Set("Accept-CH", acceptCH)
	hdr.Add(echo.HeaderVary, acceptCH)
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// Image serves the hero, about and logo images referenced by the content.
func (h *Handler) Image(c echo.Context) error {
	file := c.Param("file")
	known := false
	for _, img := range h.content.Images() {
		if img == file {
			known = true
			break
		}
	}
	if !known {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}
	data, err := h.images.Get(file, imagecache.ParseSize(c.QueryParam("size")))
	if err != nil {
		if errors.Is(err, imagecache.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "image not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/jpeg", data)
}
