package department

import (
	"fmt"
	"strings"

	"github.com/elettil/hospital/internal/platform/collection"
	"github.com/elettil/hospital/internal/platform/remote"
)

// CollectionName is the logical collection and table name.
const CollectionName = "departments"

// DefaultIcon is used for departments with no icon of their own.
const DefaultIcon = "hospital"

type Department struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Icon       string `json:"icon,omitempty" yaml:"icon"`
	OrderIndex *int   `json:"order_index,omitempty" yaml:"order_index"`
}

func Key(d Department) string { return d.ID }

// FromRow decodes a directory row. A missing icon is looked up by name among
// the committed departments.
func FromRow(r remote.Row) (Department, error) {
	d := Department{
		ID:   string(r.ID),
		Name: collection.NormalizeName(remote.Str(r.Name)),
		Icon: strings.TrimSpace(remote.Str(r.Icon)),
	}
	if r.OrderIndex != nil {
		idx := int(*r.OrderIndex)
		if float64(idx) != *r.OrderIndex {
			return Department{}, fmt.Errorf("order_index %v is not an integer", *r.OrderIndex)
		}
		d.OrderIndex = &idx
	}
	return d, nil
}

// Card is what the page and the JSON view render for one department.
type Card struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Accent string `json:"accent"`
}

// accents alternate down the grid.
var accents = [...]string{"coral", "slate"}

// NewCard picks the icon and the accent for the department at position i of
// the visible list.
func NewCard(d Department, i int) Card {
	icon := d.Icon
	if icon == "" {
		icon = IconFor(d.Name)
	}
	return Card{
		ID:     d.ID,
		Name:   d.Name,
		Icon:   icon,
		Accent: accents[i%len(accents)],
	}
}
