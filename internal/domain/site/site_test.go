package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/elettil/hospital/internal/domain/department"
	"github.com/elettil/hospital/internal/domain/doctor"
	"github.com/elettil/hospital/internal/platform/collection"
)

func offlineDoctors() collection.Fetcher[doctor.Doctor] {
	return collection.FetcherFunc[doctor.Doctor](func(context.Context, string) ([]doctor.Doctor, error) {
		return nil, errors.New("offline")
	})
}

func offlineDepartments() collection.Fetcher[department.Department] {
	return collection.FetcherFunc[department.Department](func(context.Context, string) ([]department.Department, error) {
		return nil, errors.New("offline")
	})
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	images := doctor.NewImageResolver(doctor.Portraits(), "/media/doctors", "https://ui-avatars.com/api/")
	h, err := NewHandler(
		doctor.NewService(offlineDoctors(), images, zerolog.Nop()),
		department.NewService(offlineDepartments(), zerolog.Nop()),
		DefaultContent(),
		nil,
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	h.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return h
}

func render(t *testing.T, h *Handler, target string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	if err := h.Index(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Index: %v", err)
	}
	return rec
}

func TestDefaultContent(t *testing.T) {
	c := DefaultContent()
	if len(c.Hero) != 4 {
		t.Errorf("expected 4 hero slides, got %d", len(c.Hero))
	}
	want := []string{"200k+", "10+", "30+"}
	for i, counter := range c.About.Counters {
		if counter.Display() != want[i] {
			t.Errorf("counter %d: expected %s, got %s", i, want[i], counter.Display())
		}
	}
	if len(c.Images()) != 6 {
		t.Errorf("expected 6 images, got %v", c.Images())
	}
}

func TestParseContent_RequiresName(t *testing.T) {
	if _, err := parseContent([]byte("hero:\n  - title: x\n")); err == nil {
		t.Error("expected error for missing hospital name")
	}
}

func TestIndex_NarrowViewport(t *testing.T) {
	h := newTestHandler(t)
	rec := render(t, h, "/", map[string]string{"Sec-CH-Viewport-Width": "390"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Accept-CH"); got != acceptCH {
		t.Errorf("unexpected Accept-CH %q", got)
	}
	body := rec.Body.String()
	if n := strings.Count(body, `class="card doctor"`); n != 2 {
		t.Errorf("expected 2 doctor cards, got %d", n)
	}
	if n := strings.Count(body, `class="card department`); n != 4 {
		t.Errorf("expected 4 department cards, got %d", n)
	}
	if !strings.Contains(body, "View All Doctors (4)") {
		t.Error("expected doctors toggle")
	}
	if !strings.Contains(body, "View All Departments") {
		t.Error("expected departments toggle")
	}
	if !strings.Contains(body, "&copy; 2026") {
		t.Error("expected footer year")
	}
}

func TestIndex_UnknownWidthUsesWideTier(t *testing.T) {
	rec := render(t, newTestHandler(t), "/", nil)
	body := rec.Body.String()
	if n := strings.Count(body, `class="card doctor"`); n != 4 {
		t.Errorf("expected 4 doctor cards, got %d", n)
	}
	if strings.Contains(body, "View All Doctors") {
		t.Error("toggle should be hidden when everything fits")
	}
}

func TestIndex_FilterAndExpand(t *testing.T) {
	h := newTestHandler(t)
	rec := render(t, h, "/?doctors_filter=Gynaecology&vw=500&departments_expanded=1", nil)
	body := rec.Body.String()

	if n := strings.Count(body, `class="card doctor"`); n != 2 {
		t.Errorf("expected 2 gynaecology cards, got %d", n)
	}
	if strings.Contains(body, "Dr. Alikunhi") {
		t.Error("filtered page should not list paediatrics")
	}
	if !strings.Contains(body, `class="filter active" href="/?departments_expanded=1&amp;doctors_filter=Gynaecology&amp;vw=500#doctors"`) {
		t.Error("expected active Gynaecology filter link")
	}
	if n := strings.Count(body, `class="card department`); n != 14 {
		t.Errorf("expected all 14 departments, got %d", n)
	}
	if !strings.Contains(body, "Show Less") {
		t.Error("expected Show Less for departments")
	}
}

func TestIndex_ContactError(t *testing.T) {
	body := render(t, newTestHandler(t), "/?contact_error=1", nil).Body.String()
	if !strings.Contains(body, `class="error"`) {
		t.Error("expected contact error message")
	}
	if strings.Contains(body, "contact_error") {
		t.Error("links must not carry the contact error flag")
	}
}

func TestStateURL(t *testing.T) {
	q := url.Values{"doctors_filter": {"ENT"}, "contact_error": {"1"}}
	got := stateURL(q, map[string]string{paramDoctorsExpanded: "1"}, "#doctors")
	if got != "/?doctors_expanded=1&doctors_filter=ENT#doctors" {
		t.Errorf("unexpected url %s", got)
	}
	if q.Get("doctors_expanded") != "" {
		t.Error("stateURL must not modify its input")
	}
	if got := stateURL(q, map[string]string{paramDoctorsFilter: ""}, "#doctors"); got != "/#doctors" {
		t.Errorf("unexpected url %s", got)
	}
}

func TestGlyph(t *testing.T) {
	if glyph("unknown-icon") != glyph(department.DefaultIcon) {
		t.Error("unknown icons should use the default glyph")
	}
}
