// Package pagination reads paging and show-more state from requests.
package pagination

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/elettil/hospital/internal/platform/collection"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds offset pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// FromContext extracts pagination parameters from the echo context.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// Response wraps a paginated API response.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
}

func NewResponse(data interface{}, total, limit, offset int) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// viewportHeaders are the client hints that carry the layout viewport width,
// newest first.
var viewportHeaders = []string{"Sec-CH-Viewport-Width", "Viewport-Width"}

// ViewportWidth returns the viewport width reported by client hints or the vw
// query parameter, or 0 when unknown.
func ViewportWidth(c echo.Context) int {
	for _, h := range viewportHeaders {
		if w := positive(c.Request().Header.Get(h)); w > 0 {
			return w
		}
	}
	return positive(c.QueryParam("vw"))
}

// ViewState reads the show-more state of one collection view. Parameter names
// are prefixed with prefix and an underscore unless prefix is empty, so one page
// can carry several views: doctors_filter, doctors_expanded, and so on. The JSON
// endpoints use the bare names category, expanded and width.
func ViewState(c echo.Context, prefix string) collection.ViewState {
	name := func(s string) string {
		if prefix == "" {
			return s
		}
		return prefix + "_" + s
	}

	filterParam, widthParam := name("filter"), name("width")
	if prefix == "" {
		filterParam = "category"
	}

	width := positive(c.QueryParam(widthParam))
	if width == 0 {
		width = ViewportWidth(c)
	}

	return collection.ViewState{
		Filter:   strings.TrimSpace(c.QueryParam(filterParam)),
		Expanded: truthy(c.QueryParam(name("expanded"))),
		Width:    width,
	}
}

func positive(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
