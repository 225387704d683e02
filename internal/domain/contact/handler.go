package contact

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the form endpoint on site and the JSON endpoint on api.
// Extra middleware such as rate limiting applies to both.
func (h *Handler) RegisterRoutes(site *echo.Echo, api *echo.Group, m ...echo.MiddlewareFunc) {
	site.POST("/contact", h.SubmitForm, m...)
	api.POST("/contact", h.Submit, m...)
}

type linkResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Submit answers a JSON enquiry with the deep link.
func (h *Handler) Submit(c echo.Context) error {
	var e Enquiry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	link, err := h.svc.Link(&e)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusUnprocessableEntity, errorResponse{Message: "invalid enquiry", Fields: ve.Fields})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, linkResponse{URL: link})
}

// SubmitForm handles the page's form post by redirecting the browser to the
// deep link. Invalid forms go back to the contact section.
func (h *Handler) SubmitForm(c echo.Context) error {
	var e Enquiry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	link, err := h.svc.Link(&e)
	if err != nil {
		if IsValidation(err) {
			return c.Redirect(http.StatusSeeOther, "/?contact_error=1#contact")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Redirect(http.StatusSeeOther, link)
}
