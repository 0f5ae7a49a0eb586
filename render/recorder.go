package render

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// DrawCall is one recorded sphere draw with the uniforms bound at the time.
type DrawCall struct {
	Texture string
	MVP     mgl32.Mat4
	MV      mgl32.Mat4
	Normal  mgl32.Mat4
	IsSun   bool
}

// Recorder is a headless device. It keeps the draw calls of the last
// presented frame and tracks live textures.
type Recorder struct {
	width, height int

	mvp, mv, normal mgl32.Mat4
	isSun           bool

	LightPosition mgl32.Vec3
	Lighting      Lighting

	pending []DrawCall

	mu       sync.Mutex
	last     []DrawCall
	frames   int
	textures map[string]int
	closed   bool

	texturesAtClose int
}

func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:    width,
		height:   height,
		textures: make(map[string]int),
	}
}

type recordedTexture struct {
	name     string
	rec      *Recorder
	released bool
}

func (t *recordedTexture) Name() string { return t.name }

func (t *recordedTexture) Release() error {
	if t.released {
		return ErrTextureReleased
	}
	t.released = true
	t.rec.mu.Lock()
	t.rec.textures[t.name]--
	if t.rec.textures[t.name] == 0 {
		delete(t.rec.textures, t.name)
	}
	t.rec.mu.Unlock()
	return nil
}

func (r *Recorder) LoadTexture(spec TextureSpec) (Texture, error) {
	name := spec.Path
	if name == "" {
		name = spec.Color
	}
	r.mu.Lock()
	r.textures[name]++
	r.mu.Unlock()
	return &recordedTexture{name: name, rec: r}, nil
}

func (r *Recorder) SetMVP(m mgl32.Mat4)           { r.mvp = m }
func (r *Recorder) SetMV(m mgl32.Mat4)            { r.mv = m }
func (r *Recorder) SetNormalMatrix(m mgl32.Mat4)  { r.normal = m }
func (r *Recorder) SetLightPosition(v mgl32.Vec3) { r.LightPosition = v }
func (r *Recorder) SetLightAmbient(v mgl32.Vec4)  { r.Lighting.Ambient = v }
func (r *Recorder) SetLightDiffuse(v mgl32.Vec4)  { r.Lighting.Diffuse = v }
func (r *Recorder) SetLightSpecular(v mgl32.Vec4) { r.Lighting.Specular = v }
func (r *Recorder) SetGlobalAmbient(v mgl32.Vec4) { r.Lighting.GlobalAmbient = v }
func (r *Recorder) SetShininess(v float32)        { r.Lighting.Shininess = v }
func (r *Recorder) SetIsSun(v bool)               { r.isSun = v }

func (r *Recorder) DrawSphere(tex Texture) {
	r.pending = append(r.pending, DrawCall{
		Texture: tex.Name(),
		MVP:     r.mvp,
		MV:      r.mv,
		Normal:  r.normal,
		IsSun:   r.isSun,
	})
}

func (r *Recorder) BeginFrame() {
	r.pending = r.pending[:0]
}

func (r *Recorder) Present() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = append(r.last[:0], r.pending...)
	r.frames++
	return nil
}

func (r *Recorder) Aspect() float32 {
	if r.height == 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

func (r *Recorder) Close() error {
	n := r.LiveTextures()
	r.mu.Lock()
	r.closed = true
	r.texturesAtClose = n
	r.mu.Unlock()
	return nil
}

// TexturesAtClose is the number of textures still live when Close ran.
func (r *Recorder) TexturesAtClose() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.texturesAtClose
}

// LastFrame returns a copy of the draw calls of the last presented frame.
func (r *Recorder) LastFrame() []DrawCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DrawCall, len(r.last))
	copy(out, r.last)
	return out
}

func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// LiveTextures is the number of loaded textures not yet released.
func (r *Recorder) LiveTextures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.textures {
		n += c
	}
	return n
}

func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
