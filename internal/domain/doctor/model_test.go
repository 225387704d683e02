package doctor

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/elettil/hospital/internal/platform/collection"
	"github.com/elettil/hospital/internal/platform/remote"
)

func strPtr(s string) *string { return &s }

func TestFromRow(t *testing.T) {
	idx := 2.0
	d, err := FromRow(remote.Row{
		ID:             "7",
		Name:           strPtr("  Dr. Jabira Habeeb "),
		Specialization: strPtr("Gynaecology"),
		OrderIndex:     &idx,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID != "7" || d.Name != "Dr. Jabira Habeeb" {
		t.Errorf("unexpected doctor %+v", d)
	}
	if d.OrderIndex == nil || *d.OrderIndex != 2 {
		t.Errorf("expected order_index 2, got %v", d.OrderIndex)
	}
	if !d.Active {
		t.Error("expected decoded doctor to be active")
	}
}

func TestFromRow_BlankName(t *testing.T) {
	d, err := FromRow(remote.Row{ID: "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != collection.UnknownName {
		t.Errorf("expected %q, got %q", collection.UnknownName, d.Name)
	}
}

func TestFromRow_FractionalOrder(t *testing.T) {
	idx := 1.5
	if _, err := FromRow(remote.Row{ID: "1", OrderIndex: &idx}); err == nil {
		t.Error("expected error for fractional order_index")
	}
}

func TestNewCard_Defaults(t *testing.T) {
	images := NewImageResolver(nil, "/media/doctors", "https://ui-avatars.com/api/")
	c := NewCard(Doctor{ID: "9", Name: "Dr. New"}, images)

	if c.Specialization != "General" {
		t.Errorf("expected General, got %q", c.Specialization)
	}
	if c.Education != "Education info not available" {
		t.Errorf("unexpected education %q", c.Education)
	}
	if c.Image != c.FallbackImage {
		t.Errorf("expected placeholder image, got %q", c.Image)
	}
}

func TestFallback_IsCopy(t *testing.T) {
	a := Fallback()
	if len(a) != 4 {
		t.Fatalf("expected 4 fallback doctors, got %d", len(a))
	}
	a[0].Name = "changed"
	if Fallback()[0].Name == "changed" {
		t.Error("Fallback must return a fresh copy")
	}
	for _, d := range Fallback() {
		if !d.Active {
			t.Errorf("fallback doctor %s should be active", d.ID)
		}
	}
}

func TestParseDirectory_RequiresIDAndName(t *testing.T) {
	_, err := parseDirectory([]byte("doctors:\n  - name: Dr. Nobody\n"))
	if err == nil {
		t.Error("expected error for fallback doctor without id")
	}
}

func TestPortraits_CoverFallback(t *testing.T) {
	portraits := Portraits()
	for _, d := range Fallback() {
		if _, ok := portraits[d.Name]; !ok {
			t.Errorf("no portrait for fallback doctor %s", d.Name)
		}
	}
}

func TestDoctor_JSONOmitsUnsetTimestamps(t *testing.T) {
	d, err := FromRow(remote.Row{ID: "1", Name: strPtr("Dr. A")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "created_at") || strings.Contains(string(raw), "updated_at") {
		t.Errorf("expected no timestamps, got %s", raw)
	}

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	d.CreatedAt = &now
	raw, _ = json.Marshal(d)
	if !strings.Contains(string(raw), `"created_at":"2026-03-01T09:00:00Z"`) {
		t.Errorf("expected created_at in %s", raw)
	}
}
