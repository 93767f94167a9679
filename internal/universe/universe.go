// Package universe loads named lists of listing codes to analyze.
package universe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Universe is a named, ordered set of four-digit listing codes.
type Universe struct {
	Name  string `yaml:"name"`
	Codes []int  `yaml:"codes"`
}

// Load reads a universe from a YAML file.
func Load(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	u, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return u, nil
}

// Parse decodes a universe document. Repeated codes keep their first position.
func Parse(data []byte) (*Universe, error) {
	var u Universe
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parse universe yaml: %w", err)
	}
	if len(u.Codes) == 0 {
		return nil, fmt.Errorf("universe %q has no codes", u.Name)
	}

	seen := make(map[int]bool, len(u.Codes))
	codes := u.Codes[:0]
	for _, c := range u.Codes {
		if c < 1000 || c > 9999 {
			return nil, fmt.Errorf("universe %q: invalid listing code %d", u.Name, c)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		codes = append(codes, c)
	}
	u.Codes = codes
	return &u, nil
}
