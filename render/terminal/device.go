// Package terminal renders the scene into a character grid with tcell and
// reads keyboard and mouse input from the same terminal.
//
// Spheres are rasterized as shaded discs. A character cell is treated as
// twice as tall as it is wide.
package terminal

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"solar-system-explorer/render"
)

// cellRatio is the height of a cell over its width.
const cellRatio = 2

var (
	shadeRamp  = []rune(".:-=+*#%@")
	background = tcell.NewRGBColor(8, 8, 16)
	fallback   = colorful.Color{R: 0.6, G: 0.6, B: 0.6}
)

type texture struct {
	name     string
	color    colorful.Color
	released bool
}

func (t *texture) Name() string { return t.name }

func (t *texture) Release() error {
	if t.released {
		return render.ErrTextureReleased
	}
	t.released = true
	return nil
}

// Device is a render.Device drawing into a tcell screen.
type Device struct {
	screen tcell.Screen
	width  int
	height int
	depth  []float32

	mvp      mgl32.Mat4
	mv       mgl32.Mat4
	isSun    bool
	light    mgl32.Vec3
	lighting render.Lighting
}

// Open initializes the terminal and returns a device drawing into it.
func Open() (*Device, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	return NewDevice(screen), nil
}

// NewDevice wraps an initialized screen.
func NewDevice(screen tcell.Screen) *Device {
	d := &Device{screen: screen, lighting: render.DefaultLighting()}
	d.resize()
	return d
}

func (d *Device) Screen() tcell.Screen { return d.screen }

func (d *Device) Size() (int, int) { return d.width, d.height }

func (d *Device) resize() {
	w, h := d.screen.Size()
	if w == d.width && h == d.height && d.depth != nil {
		return
	}
	d.width, d.height = w, h
	d.depth = make([]float32, w*h)
}

// LoadTexture maps the texture to its flat color.
func (d *Device) LoadTexture(spec render.TextureSpec) (render.Texture, error) {
	c := fallback
	if spec.Color != "" {
		parsed, err := colorful.Hex(spec.Color)
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", spec.Path, err)
		}
		c = parsed
	}
	name := spec.Path
	if name == "" {
		name = spec.Color
	}
	return &texture{name: name, color: c}, nil
}

func (d *Device) SetMVP(m mgl32.Mat4)           { d.mvp = m }
func (d *Device) SetMV(m mgl32.Mat4)            { d.mv = m }
func (d *Device) SetNormalMatrix(mgl32.Mat4)    {}
func (d *Device) SetLightPosition(v mgl32.Vec3) { d.light = v }
func (d *Device) SetLightAmbient(v mgl32.Vec4)  { d.lighting.Ambient = v }
func (d *Device) SetLightDiffuse(v mgl32.Vec4)  { d.lighting.Diffuse = v }
func (d *Device) SetLightSpecular(v mgl32.Vec4) { d.lighting.Specular = v }
func (d *Device) SetGlobalAmbient(v mgl32.Vec4) { d.lighting.GlobalAmbient = v }
func (d *Device) SetShininess(v float32)        { d.lighting.Shininess = v }
func (d *Device) SetIsSun(v bool)               { d.isSun = v }

func (d *Device) Aspect() float32 {
	if d.height == 0 {
		return 1
	}
	return float32(d.width) / float32(d.height*cellRatio)
}

func (d *Device) BeginFrame() {
	d.resize()
	d.screen.Fill(' ', tcell.StyleDefault.Background(background))
	for i := range d.depth {
		d.depth[i] = math32.Inf(1)
	}
}

// project maps a model-space point to cell coordinates and NDC depth.
func (d *Device) project(p mgl32.Vec3) (x, y, z float32, ok bool) {
	clip := d.mvp.Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	x = (ndc[0] + 1) / 2 * float32(d.width)
	y = (1 - ndc[1]) / 2 * float32(d.height)
	return x, y, ndc[2], true
}

// DrawSphere rasterizes the unit sphere under the current MVP as a shaded
// disc with a per-cell depth test.
func (d *Device) DrawSphere(tex render.Texture) {
	t, ok := tex.(*texture)
	if !ok || d.width == 0 || d.height == 0 {
		return
	}
	cx, cy, cz, ok := d.project(mgl32.Vec3{})
	if !ok || cz < -1 || cz > 1 {
		return
	}

	// radius in cell widths, from the projected surface points
	var r float32
	for _, axis := range []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		px, py, _, ok := d.project(axis)
		if !ok {
			continue
		}
		dx, dy := px-cx, (py-cy)*cellRatio
		r = math32.Max(r, math32.Sqrt(dx*dx+dy*dy))
	}
	if r == 0 {
		return
	}

	if r < 0.5 {
		d.plot(int(cx), int(cy), cz, '·', d.shade(t.color, 1))
		return
	}

	center := d.mv.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	toLight := d.light.Sub(center)
	if toLight.Len() > 0 {
		toLight = toLight.Normalize()
	}
	halfway := toLight.Add(mgl32.Vec3{0, 0, 1})
	if halfway.Len() > 0 {
		halfway = halfway.Normalize()
	}

	ry := r / cellRatio
	for y := int(math32.Floor(cy - ry)); y <= int(math32.Ceil(cy+ry)); y++ {
		for x := int(math32.Floor(cx - r)); x <= int(math32.Ceil(cx+r)); x++ {
			u := (float32(x) + 0.5 - cx) / r
			v := (float32(y) + 0.5 - cy) * cellRatio / r
			d2 := u*u + v*v
			if d2 > 1 {
				continue
			}
			n := mgl32.Vec3{u, -v, math32.Sqrt(1 - d2)}

			brightness := float32(1)
			if !d.isSun {
				diffuse := math32.Max(0, n.Dot(toLight))
				specular := math32.Pow(math32.Max(0, n.Dot(halfway)), d.lighting.Shininess)
				brightness = d.lighting.GlobalAmbient[0] + d.lighting.Ambient[0] +
					d.lighting.Diffuse[0]*diffuse + d.lighting.Specular[0]*specular*sign(diffuse)
			}
			brightness = mgl32.Clamp(brightness, 0, 1)
			idx := int(brightness * float32(len(shadeRamp)-1))
			d.plot(x, y, cz, shadeRamp[idx], d.shade(t.color, brightness))
		}
	}
}

func sign(v float32) float32 {
	if v > 0 {
		return 1
	}
	return 0
}

func (d *Device) shade(c colorful.Color, brightness float32) tcell.Style {
	lit := colorful.Color{}.BlendRgb(c, float64(brightness)).Clamped()
	r, g, b := lit.RGB255()
	return tcell.StyleDefault.
		Background(background).
		Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

func (d *Device) plot(x, y int, z float32, ch rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return
	}
	i := y*d.width + x
	if z >= d.depth[i] {
		return
	}
	d.depth[i] = z
	d.screen.SetContent(x, y, ch, nil, style)
}

// DrawText writes s starting at (x, y), clipped to the screen. Text is drawn
// over the scene without a depth test.
func (d *Device) DrawText(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		if x >= d.width {
			return
		}
		if x >= 0 && y >= 0 && y < d.height {
			d.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
}

func (d *Device) Present() error {
	d.screen.Show()
	return nil
}

func (d *Device) Close() error {
	d.screen.Fini()
	return nil
}
