package site

import (
	_ "embed"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed data/content.yaml
var contentYAML []byte

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Slide struct {
	Image string `yaml:"image"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// Counter is an about-section figure. Only the final value is rendered.
type Counter struct {
	Value  int    `yaml:"value"`
	Suffix string `yaml:"suffix"`
	Label  string `yaml:"label"`
}

func (c Counter) Display() string {
	return strconv.Itoa(c.Value) + c.Suffix
}

type Content struct {
	Hospital struct {
		Name     string `yaml:"name"`
		FullName string `yaml:"full_name"`
		Logo     string `yaml:"logo"`
	} `yaml:"hospital"`
	Nav   []Link  `yaml:"nav"`
	Hero  []Slide `yaml:"hero"`
	About struct {
		Image      string    `yaml:"image"`
		Paragraphs []string  `yaml:"paragraphs"`
		Counters   []Counter `yaml:"counters"`
	} `yaml:"about"`
	Contact struct {
		Address string   `yaml:"address"`
		Phones  []string `yaml:"phones"`
		Email   string   `yaml:"email"`
		Hours   string   `yaml:"hours"`
	} `yaml:"contact"`
	Socials []Link `yaml:"socials"`
	Footer  struct {
		Blurb  string `yaml:"blurb"`
		Credit Link   `yaml:"credit"`
	} `yaml:"footer"`
}

// Images lists every local image the page references.
func (c Content) Images() []string {
	out := make([]string, 0, len(c.Hero)+2)
	for _, s := range c.Hero {
		out = append(out, s.Image)
	}
	if c.About.Image != "" {
		out = append(out, c.About.Image)
	}
	if c.Hospital.Logo != "" {
		out = append(out, c.Hospital.Logo)
	}
	return out
}

func parseContent(b []byte) (Content, error) {
	var c Content
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse site content: %w", err)
	}
	if c.Hospital.Name == "" {
		return c, fmt.Errorf("site content needs hospital.name")
	}
	if len(c.Hero) == 0 {
		return c, fmt.Errorf("site content needs at least one hero slide")
	}
	return c, nil
}

// DefaultContent returns the committed page content.
func DefaultContent() Content {
	c, err := parseContent(contentYAML)
	if err != nil {
		panic(err)
	}
	return c
}
