// Package render defines the render service the frame driver submits to.
//
// A device owns the compiled shader program, the shared unit-sphere mesh and
// the textures it hands out. The driver only uploads matrices and lighting
// parameters and asks for a sphere to be drawn with a given texture.
package render

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrTextureReleased = errors.New("texture already released")

// TextureSpec names a texture. GPU devices read Path, character devices
// fall back to Color.
type TextureSpec struct {
	Path  string
	Color string
}

// Texture is a device resource acquired by a body and released on shutdown.
type Texture interface {
	Name() string
	Release() error
}

// Shader mirrors the uniform setters of the sphere program.
type Shader interface {
	SetMVP(m mgl32.Mat4)
	SetMV(m mgl32.Mat4)
	SetNormalMatrix(m mgl32.Mat4)
	SetLightPosition(v mgl32.Vec3)
	SetLightAmbient(v mgl32.Vec4)
	SetLightDiffuse(v mgl32.Vec4)
	SetLightSpecular(v mgl32.Vec4)
	SetGlobalAmbient(v mgl32.Vec4)
	SetShininess(v float32)
	SetIsSun(v bool)
}

// Drawer issues a draw of the shared unit sphere with the currently
// uploaded uniforms.
type Drawer interface {
	DrawSphere(tex Texture)
}

type TextureLoader interface {
	LoadTexture(spec TextureSpec) (Texture, error)
}

type Device interface {
	Shader
	Drawer
	TextureLoader

	// BeginFrame clears color and depth.
	BeginFrame()
	// Present shows the finished frame.
	Present() error
	// Aspect is the viewport width over height.
	Aspect() float32
	Close() error
}

// Lighting holds the light parameters uploaded once before the first frame.
type Lighting struct {
	Ambient       mgl32.Vec4
	Diffuse       mgl32.Vec4
	Specular      mgl32.Vec4
	GlobalAmbient mgl32.Vec4
	Shininess     float32
}

func DefaultLighting() Lighting {
	return Lighting{
		Ambient:       mgl32.Vec4{0.1, 0.1, 0.1, 1},
		Diffuse:       mgl32.Vec4{1, 1, 1, 1},
		Specular:      mgl32.Vec4{0.5, 0.5, 0.5, 1},
		GlobalAmbient: mgl32.Vec4{0.05, 0.05, 0.05, 1},
		Shininess:     16,
	}
}

func (l Lighting) Apply(s Shader) {
	s.SetLightAmbient(l.Ambient)
	s.SetLightDiffuse(l.Diffuse)
	s.SetLightSpecular(l.Specular)
	s.SetGlobalAmbient(l.GlobalAmbient)
	s.SetShininess(l.Shininess)
}
