package site

import (
	"fmt"
	"net/url"

	"github.com/elettil/hospital/internal/domain/department"
	"github.com/elettil/hospital/internal/domain/doctor"
	"github.com/elettil/hospital/internal/platform/collection"
)

// Query parameters carrying the state of the two views on the page.
const (
	paramDoctorsFilter       = "doctors_filter"
	paramDoctorsExpanded     = "doctors_expanded"
	paramDepartmentsExpanded = "departments_expanded"
	paramContactError        = "contact_error"
)

// FilterLink is one button of the doctors filter bar.
type FilterLink struct {
	Label  string
	URL    string
	Active bool
}

// Toggle is a show-more button. Show is false when everything already fits.
type Toggle struct {
	Show  bool
	Label string
	URL   string
}

// Page is the template model of the home page.
type Page struct {
	Content           Content
	Year              int
	MediaPrefix       string
	Doctors           collection.View[doctor.Card]
	DoctorFilters     []FilterLink
	DoctorsToggle     Toggle
	Departments       collection.View[department.Card]
	DepartmentsToggle Toggle
	ContactError      bool
}

// stateURL returns the page URL for query with set applied. Empty values
// remove the parameter. The contact error flag never carries over.
func stateURL(query url.Values, set map[string]string, anchor string) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Del(paramContactError)
	for k, v := range set {
		if v == "" {
			q.Del(k)
		} else {
			q.Set(k, v)
		}
	}
	u := "/"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u + anchor
}

func doctorFilters(v collection.View[doctor.Card], query url.Values) []FilterLink {
	out := make([]FilterLink, 0, len(v.Categories))
	for _, cat := range v.Categories {
		value := cat
		if cat == collection.All {
			value = ""
		}
		out = append(out, FilterLink{
			Label:  cat,
			URL:    stateURL(query, map[string]string{paramDoctorsFilter: value, paramDoctorsExpanded: ""}, "#doctors"),
			Active: cat == v.Filter,
		})
	}
	return out
}

func doctorsToggle(v collection.View[doctor.Card], query url.Values) Toggle {
	if !v.ShowToggle {
		return Toggle{}
	}
	if v.Expanded {
		return Toggle{Show: true, Label: "Show Less", URL: stateURL(query, map[string]string{paramDoctorsExpanded: ""}, "#doctors")}
	}
	return Toggle{
		Show:  true,
		Label: fmt.Sprintf("View All Doctors (%d)", v.Total),
		URL:   stateURL(query, map[string]string{paramDoctorsExpanded: "1"}, "#doctors"),
	}
}

func departmentsToggle(v collection.View[department.Card], query url.Values) Toggle {
	if !v.ShowToggle {
		return Toggle{}
	}
	if v.Expanded {
		return Toggle{Show: true, Label: "Show Less", URL: stateURL(query, map[string]string{paramDepartmentsExpanded: ""}, "#departments")}
	}
	return Toggle{
		Show:  true,
		Label: "View All Departments",
		URL:   stateURL(query, map[string]string{paramDepartmentsExpanded: "1"}, "#departments"),
	}
}
