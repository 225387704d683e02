package department

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/departments.yaml
var departmentsYAML []byte

var departments = mustParse(departmentsYAML)

func parse(b []byte) ([]Department, error) {
	var f struct {
		Departments []Department `yaml:"departments"`
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse departments: %w", err)
	}
	for i, d := range f.Departments {
		if d.ID == "" || d.Name == "" {
			return nil, fmt.Errorf("fallback department %d needs id and name", i)
		}
	}
	return f.Departments, nil
}

func mustParse(b []byte) []Department {
	ds, err := parse(b)
	if err != nil {
		panic(err)
	}
	return ds
}

// Fallback returns a copy of the committed departments.
func Fallback() []Department {
	out := make([]Department, len(departments))
	copy(out, departments)
	return out
}

// IconFor returns the committed icon for a department name, matched without
// regard to case, or DefaultIcon.
func IconFor(name string) string {
	for _, d := range departments {
		if strings.EqualFold(d.Name, strings.TrimSpace(name)) && d.Icon != "" {
			return d.Icon
		}
	}
	return DefaultIcon
}
