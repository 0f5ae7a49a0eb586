// Package camera implements the free-look camera. Orientation is held as
// yaw and pitch in degrees; the front, right and up vectors are derived from
// them whenever they change.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"solar-system-explorer/input"
)

var worldUp = mgl32.Vec3{0, 1, 0}

type Config struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	// Speed is in world units per second.
	Speed float32
	// SlowFactor scales Speed while SLOW is held.
	SlowFactor float32
	// Sensitivity is degrees per unit of mouse travel.
	Sensitivity float32
	// ZoomSensitivity is degrees of field of view per scroll step.
	ZoomSensitivity float32

	FOV    float32
	FOVMin float32
	FOVMax float32
	// PitchLimit bounds |pitch| and must stay below 90.
	PitchLimit float32

	Near float32
	Far  float32
}

func DefaultConfig() Config {
	return Config{
		Position:        mgl32.Vec3{-100, 15, 0},
		Yaw:             0,
		Pitch:           -8,
		Speed:           25,
		SlowFactor:      0.2,
		Sensitivity:     0.1,
		ZoomSensitivity: 1,
		FOV:             45,
		FOVMin:          1,
		FOVMax:          90,
		PitchLimit:      89,
		Near:            0.1,
		Far:             10000,
	}
}

type Camera struct {
	cfg Config

	Position mgl32.Vec3

	yaw   float32
	pitch float32
	fov   float32

	front mgl32.Vec3
	right mgl32.Vec3
	up    mgl32.Vec3
}

func New(cfg Config) *Camera {
	if cfg.PitchLimit <= 0 || cfg.PitchLimit >= 90 {
		cfg.PitchLimit = 89
	}
	if cfg.FOVMin > cfg.FOVMax {
		cfg.FOVMin, cfg.FOVMax = cfg.FOVMax, cfg.FOVMin
	}
	c := &Camera{
		cfg:      cfg,
		Position: cfg.Position,
		yaw:      wrapDegrees(cfg.Yaw),
		pitch:    mgl32.Clamp(cfg.Pitch, -cfg.PitchLimit, cfg.PitchLimit),
		fov:      mgl32.Clamp(cfg.FOV, cfg.FOVMin, cfg.FOVMax),
	}
	c.updateVectors()
	return c
}

func (c *Camera) Config() Config { return c.cfg }

func (c *Camera) Yaw() float32   { return c.yaw }
func (c *Camera) Pitch() float32 { return c.pitch }
func (c *Camera) FOV() float32   { return c.fov }

func (c *Camera) Front() mgl32.Vec3 { return c.front }
func (c *Camera) Right() mgl32.Vec3 { return c.right }
func (c *Camera) Up() mgl32.Vec3    { return c.up }

// Update applies one frame of input: keyboard translation first, then mouse
// look and zoom. Look and zoom are skipped while an overlay owns the mouse.
func (c *Camera) Update(m input.Movement, d input.Delta) {
	c.move(m, d.Elapsed)
	if d.OverlayFocus {
		return
	}
	c.Look(d.MouseDX, d.MouseDY)
	c.Zoom(d.Scroll)
}

func (c *Camera) move(m input.Movement, dt float32) {
	var dir mgl32.Vec3
	if m.Has(input.Forward) {
		dir = dir.Add(c.front)
	}
	if m.Has(input.Backward) {
		dir = dir.Sub(c.front)
	}
	if m.Has(input.Right) {
		dir = dir.Add(c.right)
	}
	if m.Has(input.Left) {
		dir = dir.Sub(c.right)
	}
	if dir.Len() < 1e-6 {
		return
	}

	distance := c.cfg.Speed * dt
	if m.Has(input.Slow) {
		distance *= c.cfg.SlowFactor
	}
	c.Position = c.Position.Add(dir.Normalize().Mul(distance))
}

// Look turns the camera by a mouse delta. Pitch saturates at the limit.
func (c *Camera) Look(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	c.yaw = wrapDegrees(c.yaw + dx*c.cfg.Sensitivity)
	c.pitch = mgl32.Clamp(c.pitch+dy*c.cfg.Sensitivity, -c.cfg.PitchLimit, c.cfg.PitchLimit)
	c.updateVectors()
}

// Zoom narrows the field of view for positive scroll, within the limits.
func (c *Camera) Zoom(scroll float32) {
	c.fov = mgl32.Clamp(c.fov-scroll*c.cfg.ZoomSensitivity, c.cfg.FOVMin, c.cfg.FOVMax)
}

func (c *Camera) updateVectors() {
	yaw := mgl32.DegToRad(c.yaw)
	pitch := mgl32.DegToRad(c.pitch)
	c.front = mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	c.right = c.front.Cross(worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.front), c.up)
}

// ProjectionMatrix is a perspective projection for the current field of view.
func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.fov), aspect, c.cfg.Near, c.cfg.Far)
}

func wrapDegrees(a float32) float32 {
	a = math32.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
