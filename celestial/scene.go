package celestial

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"solar-system-explorer/models"
	"solar-system-explorer/render"
)

// Scene owns every body of the hierarchy in a flat list. Parents always come
// before their children.
type Scene struct {
	bodies []*Body
	byName map[string]*Body
}

// Build creates the bodies of a catalog. Textures acquired before a failure
// are released.
func Build(catalog []models.Planet, textures render.TextureLoader) (*Scene, error) {
	ordered, err := models.Validate(catalog)
	if err != nil {
		return nil, err
	}

	s := &Scene{byName: make(map[string]*Body, len(ordered))}
	for _, p := range ordered {
		var parent *Body
		if p.Parent != "" {
			parent = s.byName[strings.ToLower(p.Parent)]
		}
		b, err := New(parent, paramsFromPlanet(p), textures)
		if err != nil {
			return nil, errors.Join(err, s.Close())
		}
		s.bodies = append(s.bodies, b)
		s.byName[strings.ToLower(p.Name)] = b
	}
	return s, nil
}

func paramsFromPlanet(p models.Planet) Params {
	return Params{
		Name:          p.Name,
		Star:          p.IsStar,
		Texture:       render.TextureSpec{Path: p.Texture, Color: p.Color},
		Position:      mgl32.Vec3(p.Position),
		OrbitRadius:   p.OrbitRadius,
		Radius:        p.Radius,
		RotationSpeed: p.RotationSpeed,
		RotationAxis:  mgl32.Vec3(p.RotationAxis),
		OrbitSpeed:    p.OrbitSpeed,
		OrbitAxis:     mgl32.Vec3(p.OrbitAxis),
	}
}

func (s *Scene) Bodies() []*Body { return s.bodies }

func (s *Scene) Len() int { return len(s.bodies) }

// Lookup finds a body by name, ignoring case.
func (s *Scene) Lookup(name string) (*Body, bool) {
	b, ok := s.byName[strings.ToLower(name)]
	return b, ok
}

// Sun returns the first star of the scene, or nil.
func (s *Scene) Sun() *Body {
	for _, b := range s.bodies {
		if b.Star {
			return b
		}
	}
	return nil
}

// Update advances every body by dt seconds at the given simulation speed.
func (s *Scene) Update(dt, speed float32) {
	for _, b := range s.bodies {
		b.Update(dt, speed)
	}
}

// Close releases the textures of all bodies, children first.
func (s *Scene) Close() error {
	var errs []error
	for i := len(s.bodies) - 1; i >= 0; i-- {
		if err := s.bodies[i].Close(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", s.bodies[i].Name, err))
		}
	}
	return errors.Join(errs...)
}
