// Package celestial implements the body hierarchy: bodies spinning about
// their own axis and orbiting a parent body on a fixed-radius circle.
package celestial

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"solar-system-explorer/render"
)

const fullTurn = 2 * math32.Pi

// Params are the construction-time parameters of a body.
type Params struct {
	Name    string
	Star    bool
	Texture render.TextureSpec

	// Position is the absolute position of a root body.
	Position mgl32.Vec3
	// OrbitRadius is the length of the orbit arm of a body with a parent.
	OrbitRadius float32
	Radius      float32

	RotationSpeed float32
	RotationAxis  mgl32.Vec3
	OrbitSpeed    float32
	OrbitAxis     mgl32.Vec3
}

// Body is a textured sphere. A body never owns its parent and never
// mutates it; the parent is fixed at construction.
type Body struct {
	Name string
	Star bool

	parent *Body

	// LocalPosition is absolute for a root body and the orbit arm otherwise.
	LocalPosition mgl32.Vec3
	Radius        float32

	RotationAxis  mgl32.Vec3
	RotationSpeed float32
	RotationAngle float32

	OrbitAxis  mgl32.Vec3
	OrbitSpeed float32
	OrbitAngle float32

	texture render.Texture
}

// New creates a body and acquires its texture. parent may be nil.
func New(parent *Body, p Params, textures render.TextureLoader) (*Body, error) {
	tex, err := textures.LoadTexture(p.Texture)
	if err != nil {
		return nil, fmt.Errorf("load texture for %s: %w", p.Name, err)
	}

	b := &Body{
		Name:          p.Name,
		Star:          p.Star,
		parent:        parent,
		Radius:        p.Radius,
		RotationAxis:  p.RotationAxis,
		RotationSpeed: p.RotationSpeed,
		texture:       tex,
	}
	if parent == nil {
		b.LocalPosition = p.Position
		return b, nil
	}

	b.OrbitAxis = p.OrbitAxis
	b.OrbitSpeed = p.OrbitSpeed
	b.LocalPosition = orbitArm(p.OrbitAxis).Mul(p.OrbitRadius)
	return b, nil
}

// orbitArm returns the unit direction of the orbit arm at angle zero: +X for
// orbits about +Y, otherwise a direction perpendicular to the axis.
func orbitArm(axis mgl32.Vec3) mgl32.Vec3 {
	if axis.Len() == 0 {
		return mgl32.Vec3{1, 0, 0}
	}
	arm := axis.Cross(mgl32.Vec3{0, 0, 1})
	if arm.Len() < 1e-6 {
		arm = axis.Cross(mgl32.Vec3{1, 0, 0})
	}
	return arm.Normalize()
}

func (b *Body) Parent() *Body { return b.parent }

// AbsolutePosition resolves the world position through the ancestors. Root
// bodies ignore orbitScale.
func (b *Body) AbsolutePosition(orbitScale float32) mgl32.Vec3 {
	if b.parent == nil {
		return b.LocalPosition
	}
	arm := rotation(b.OrbitAngle, b.OrbitAxis).Mul4x1(b.LocalPosition.Mul(orbitScale).Vec4(0)).Vec3()
	return b.parent.AbsolutePosition(orbitScale).Add(arm)
}

// Update advances the spin and, for bodies with a parent, the orbit. It reads
// nothing but the body itself, so bodies can be updated in any order.
func (b *Body) Update(dt, speed float32) {
	b.RotationAngle = wrapAngle(b.RotationAngle + b.RotationSpeed*dt*speed)
	if b.parent != nil {
		b.OrbitAngle = wrapAngle(b.OrbitAngle + b.OrbitSpeed*dt*speed)
	}
}

// ModelMatrix is translate(absolute position) * rotate(spin) * scale(radius).
func (b *Body) ModelMatrix(radiusScale, orbitScale float32) mgl32.Mat4 {
	pos := b.AbsolutePosition(orbitScale)
	s := b.Radius * radiusScale
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(rotation(b.RotationAngle, b.RotationAxis)).
		Mul4(mgl32.Scale3D(s, s, s))
}

// Render draws the shared unit sphere with the body's texture using the
// uniforms uploaded just before. Closed bodies draw nothing.
func (b *Body) Render(d render.Drawer) {
	if b.texture == nil {
		return
	}
	d.DrawSphere(b.texture)
}

// Close releases the texture. It is safe to call more than once.
func (b *Body) Close() error {
	if b.texture == nil {
		return nil
	}
	err := b.texture.Release()
	b.texture = nil
	return err
}

// rotation turns by angle about axis. Spin and orbit share it: a positive
// angle about +Y carries +X toward +Z.
func rotation(angle float32, axis mgl32.Vec3) mgl32.Mat4 {
	if axis.Len() == 0 {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(-angle, axis.Normalize())
}

// wrapAngle keeps angles in [0, 2π).
func wrapAngle(a float32) float32 {
	if math32.IsNaN(a) || math32.IsInf(a, 0) {
		return 0
	}
	a = math32.Mod(a, fullTurn)
	if a < 0 {
		a += fullTurn
	}
	// tiny negative angles round up to a full turn
	if a >= fullTurn {
		return 0
	}
	return a
}
