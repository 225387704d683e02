package doctor

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/directory.yaml
var directoryYAML []byte

type directoryFile struct {
	Doctors   []Doctor          `yaml:"doctors"`
	Portraits map[string]string `yaml:"portraits"`
}

var directory = mustParseDirectory(directoryYAML)

func parseDirectory(b []byte) (directoryFile, error) {
	var f directoryFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("parse doctor directory: %w", err)
	}
	for i := range f.Doctors {
		if f.Doctors[i].ID == "" || f.Doctors[i].Name == "" {
			return f, fmt.Errorf("fallback doctor %d needs id and name", i)
		}
		f.Doctors[i].Active = true
	}
	return f, nil
}

func mustParseDirectory(b []byte) directoryFile {
	f, err := parseDirectory(b)
	if err != nil {
		panic(err)
	}
	return f
}

// Fallback returns a copy of the committed doctors shown when the directory
// source fails or is empty.
func Fallback() []Doctor {
	out := make([]Doctor, len(directory.Doctors))
	copy(out, directory.Doctors)
	return out
}

// Portraits returns the committed display-name to portrait-file map.
func Portraits() map[string]string {
	out := make(map[string]string, len(directory.Portraits))
	for k, v := range directory.Portraits {
		out[k] = v
	}
	return out
}
