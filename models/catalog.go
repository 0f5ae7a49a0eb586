package models

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var (
	ErrDuplicateBody = errors.New("duplicate body name")
	ErrUnknownParent = errors.New("unknown parent body")
	ErrParentCycle   = errors.New("parent cycle")
	ErrEmptyCatalog  = errors.New("catalog has no bodies")
)

type catalogFile struct {
	Bodies []Planet `toml:"body"`
}

// LoadCatalog decodes a TOML scene description made of [[body]] tables and
// returns the validated bodies, parents first.
func LoadCatalog(r io.Reader) ([]Planet, error) {
	var file catalogFile
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range file.Bodies {
		if file.Bodies[i].RotationAxis == ([3]float32{}) {
			file.Bodies[i].RotationAxis = Up
		}
		if file.Bodies[i].OrbitAxis == ([3]float32{}) {
			file.Bodies[i].OrbitAxis = Up
		}
	}
	return Validate(file.Bodies)
}

// Validate checks names and parent links and returns a copy ordered so that
// every parent precedes its children. Relative order is otherwise kept.
func Validate(planets []Planet) ([]Planet, error) {
	if len(planets) == 0 {
		return nil, ErrEmptyCatalog
	}

	index := make(map[string]int, len(planets))
	for i, p := range planets {
		key := strings.ToLower(p.Name)
		if key == "" {
			return nil, fmt.Errorf("body %d: empty name", i)
		}
		if _, ok := index[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBody, p.Name)
		}
		index[key] = i
	}
	for _, p := range planets {
		if p.Parent == "" {
			continue
		}
		if _, ok := index[strings.ToLower(p.Parent)]; !ok {
			return nil, fmt.Errorf("%w: %s (parent of %s)", ErrUnknownParent, p.Parent, p.Name)
		}
	}

	ordered := make([]Planet, 0, len(planets))
	placed := make(map[string]bool, len(planets))
	for len(ordered) < len(planets) {
		progress := false
		for _, p := range planets {
			key := strings.ToLower(p.Name)
			if placed[key] {
				continue
			}
			if p.Parent == "" || placed[strings.ToLower(p.Parent)] {
				ordered = append(ordered, p)
				placed[key] = true
				progress = true
			}
		}
		if !progress {
			var stuck []string
			for _, p := range planets {
				if !placed[strings.ToLower(p.Name)] {
					stuck = append(stuck, p.Name)
				}
			}
			return nil, fmt.Errorf("%w: %s", ErrParentCycle, strings.Join(stuck, ", "))
		}
	}
	return ordered, nil
}

// FindPlanet looks a body up by its English or Serbian name, ignoring case.
func FindPlanet(planets []Planet, name string) (Planet, bool) {
	name = strings.ToLower(name)
	for _, planet := range planets {
		if strings.ToLower(planet.Name) == name || strings.ToLower(planet.NameSR) == name {
			return planet, true
		}
	}
	return Planet{}, false
}
