package doctor

import (
	"fmt"
	"strings"
	"time"

	"github.com/elettil/hospital/internal/platform/collection"
	"github.com/elettil/hospital/internal/platform/remote"
)

// CollectionName is the logical collection and table name.
const CollectionName = "doctors"

// Doctor maps to the doctors table.
type Doctor struct {
	ID             string     `db:"id" json:"id" yaml:"id"`
	Name           string     `db:"name" json:"name" yaml:"name"`
	Specialization string     `db:"specialization" json:"specialization,omitempty" yaml:"specialization"`
	Education      string     `db:"education" json:"education,omitempty" yaml:"education"`
	Image          string     `db:"image" json:"image,omitempty" yaml:"image"`
	OrderIndex     *int       `db:"order_index" json:"order_index,omitempty" yaml:"order_index"`
	Active         bool       `db:"is_active" json:"is_active" yaml:"-"`
	CreatedAt      *time.Time `db:"created_at" json:"created_at,omitempty" yaml:"-"`
	UpdatedAt      *time.Time `db:"updated_at" json:"updated_at,omitempty" yaml:"-"`
}

// Key returns the id.
func Key(d Doctor) string { return d.ID }

// Category returns the specialization used by the filter bar.
func Category(d Doctor) string { return d.Specialization }

// FromRow decodes a directory row. Blank names become collection.UnknownName.
func FromRow(r remote.Row) (Doctor, error) {
	d := Doctor{
		ID:             string(r.ID),
		Name:           collection.NormalizeName(remote.Str(r.Name)),
		Specialization: strings.TrimSpace(remote.Str(r.Specialization)),
		Education:      strings.TrimSpace(remote.Str(r.Education)),
		Image:          strings.TrimSpace(remote.Str(r.Image)),
		Active:         true,
	}
	if r.OrderIndex != nil {
		idx := int(*r.OrderIndex)
		if float64(idx) != *r.OrderIndex {
			return Doctor{}, fmt.Errorf("order_index %v is not an integer", *r.OrderIndex)
		}
		d.OrderIndex = &idx
	}
	return d, nil
}

// Card is what the page and the JSON view render for one doctor.
type Card struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Education      string `json:"education"`
	Image          string `json:"image"`
	FallbackImage  string `json:"fallback_image"`
}

const (
	defaultSpecialization = "General"
	defaultEducation      = "Education info not available"
)

// NewCard fills display defaults and resolves both image URLs.
func NewCard(d Doctor, images *ImageResolver) Card {
	c := Card{
		ID:             d.ID,
		Name:           d.Name,
		Specialization: d.Specialization,
		Education:      d.Education,
		Image:          images.Resolve(d),
		FallbackImage:  images.Placeholder(d.Name),
	}
	if c.Specialization == "" {
		c.Specialization = defaultSpecialization
	}
	if c.Education == "" {
		c.Education = defaultEducation
	}
	return c
}
