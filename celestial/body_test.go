package celestial

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-system-explorer/render"
)

const eps = 1e-3

func newBody(t *testing.T, parent *Body, p Params) *Body {
	t.Helper()
	if p.RotationAxis == (mgl32.Vec3{}) {
		p.RotationAxis = mgl32.Vec3{0, 1, 0}
	}
	if parent != nil && p.OrbitAxis == (mgl32.Vec3{}) {
		p.OrbitAxis = mgl32.Vec3{0, 1, 0}
	}
	b, err := New(parent, p, render.NewRecorder(1, 1))
	require.NoError(t, err)
	return b
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, eps), "want %v, got %v", want, got)
}

func TestAbsolutePosition_RootIgnoresOrbitScale(t *testing.T) {
	root := newBody(t, nil, Params{Name: "sun", Position: mgl32.Vec3{1, 2, 3}, Radius: 1})
	for _, scale := range []float32{0, 1, 2.5, 5, -3} {
		assert.Equal(t, mgl32.Vec3{1, 2, 3}, root.AbsolutePosition(scale))
	}
}

func TestAbsolutePosition_QuarterOrbit(t *testing.T) {
	sun := newBody(t, nil, Params{Name: "sun", Radius: 1})
	planet := newBody(t, sun, Params{Name: "planet", OrbitRadius: 10, OrbitSpeed: math.Pi / 2})

	assertVec(t, mgl32.Vec3{10, 0, 0}, planet.AbsolutePosition(1))

	planet.Update(1, 1)

	assertVec(t, mgl32.Vec3{0, 0, 10}, planet.AbsolutePosition(1))
}

func TestAbsolutePosition_OrbitScale(t *testing.T) {
	sun := newBody(t, nil, Params{Name: "sun", Position: mgl32.Vec3{1, 0, 0}})
	planet := newBody(t, sun, Params{Name: "planet", OrbitRadius: 2})

	assertVec(t, mgl32.Vec3{7, 0, 0}, planet.AbsolutePosition(3))
}

func TestAbsolutePosition_Periodic(t *testing.T) {
	sun := newBody(t, nil, Params{Name: "sun", Position: mgl32.Vec3{4, -2, 1}})
	planet := newBody(t, sun, Params{Name: "planet", OrbitRadius: 10, OrbitSpeed: 1})

	start := planet.AbsolutePosition(1)
	offset := start.Sub(sun.AbsolutePosition(1))

	steps := 64
	dt := float32(2*math.Pi) / float32(steps)
	prev := start
	for i := 0; i < steps; i++ {
		planet.Update(dt, 1)
		pos := planet.AbsolutePosition(1)
		// continuous: chord between samples stays small
		assert.Less(t, pos.Sub(prev).Len(), float32(1.5))
		// circular: distance to the parent never changes
		assert.InDelta(t, 10, pos.Sub(sun.AbsolutePosition(1)).Len(), eps)
		prev = pos
	}
	assertVec(t, offset, planet.AbsolutePosition(1).Sub(sun.AbsolutePosition(1)))
}

func TestAbsolutePosition_ArbitraryDepth(t *testing.T) {
	root := newBody(t, nil, Params{Name: "root"})
	parent := root
	for i := 0; i < 5; i++ {
		parent = newBody(t, parent, Params{Name: "child", OrbitRadius: 1})
	}
	assertVec(t, mgl32.Vec3{5, 0, 0}, parent.AbsolutePosition(1))
	assertVec(t, mgl32.Vec3{10, 0, 0}, parent.AbsolutePosition(2))
}

func TestAbsolutePosition_MoonFollowsPlanet(t *testing.T) {
	sun := newBody(t, nil, Params{Name: "sun"})
	earth := newBody(t, sun, Params{Name: "earth", OrbitRadius: 10, OrbitSpeed: math.Pi / 2})
	moon := newBody(t, earth, Params{Name: "moon", OrbitRadius: 1, OrbitSpeed: math.Pi})

	earth.Update(1, 1)
	moon.Update(1, 1)

	// earth at (0,0,10), moon half a turn around earth
	assertVec(t, mgl32.Vec3{-1, 0, 10}, moon.AbsolutePosition(1))
}

func TestUpdate_OrderIndependent(t *testing.T) {
	build := func() []*Body {
		sun := newBody(t, nil, Params{Name: "sun", RotationSpeed: 0.3})
		earth := newBody(t, sun, Params{Name: "earth", OrbitRadius: 10, OrbitSpeed: 1.1, RotationSpeed: 2})
		moon := newBody(t, earth, Params{Name: "moon", OrbitRadius: 1, OrbitSpeed: 3.7, RotationSpeed: 0.5})
		mars := newBody(t, sun, Params{Name: "mars", OrbitRadius: 20, OrbitSpeed: 0.7, RotationSpeed: 1})
		return []*Body{sun, earth, moon, mars}
	}

	a := build()
	b := build()
	order := rand.New(rand.NewSource(7)).Perm(len(b))

	for frame := 0; frame < 50; frame++ {
		for _, body := range a {
			body.Update(0.016, 1.5)
		}
		for _, i := range order {
			b[i].Update(0.016, 1.5)
		}
	}

	for i := range a {
		assert.Equal(t, a[i].RotationAngle, b[i].RotationAngle, a[i].Name)
		assert.Equal(t, a[i].OrbitAngle, b[i].OrbitAngle, a[i].Name)
	}
}

func TestUpdate_RootDoesNotOrbit(t *testing.T) {
	sun := newBody(t, nil, Params{Name: "sun", RotationSpeed: 1})
	sun.OrbitSpeed = 5
	sun.Update(1, 1)
	assert.Zero(t, sun.OrbitAngle)
	assert.InDelta(t, 1, sun.RotationAngle, 1e-6)
}

func TestUpdate_SpeedScalesAndZeroSpeedFreezes(t *testing.T) {
	sun := newBody(t, nil, Params{Name: "sun"})
	p := newBody(t, sun, Params{Name: "p", OrbitRadius: 1, OrbitSpeed: 1, RotationSpeed: 1})

	p.Update(0.5, 2)
	assert.InDelta(t, 1, p.OrbitAngle, 1e-6)
	assert.InDelta(t, 1, p.RotationAngle, 1e-6)

	p.Update(10, 0)
	assert.InDelta(t, 1, p.OrbitAngle, 1e-6)
}

func TestUpdate_AnglesWrap(t *testing.T) {
	sun := newBody(t, nil, Params{Name: "sun"})
	p := newBody(t, sun, Params{Name: "p", OrbitRadius: 1, OrbitSpeed: 45.58, RotationSpeed: -36.84})

	for i := 0; i < 100000; i++ {
		p.Update(0.016, 2)
		require.GreaterOrEqual(t, p.OrbitAngle, float32(0))
		require.Less(t, p.OrbitAngle, float32(fullTurn))
		require.GreaterOrEqual(t, p.RotationAngle, float32(0))
		require.Less(t, p.RotationAngle, float32(fullTurn))
	}
}

func TestWrapAngle_NonFinite(t *testing.T) {
	assert.Zero(t, wrapAngle(float32(math.Inf(1))))
	assert.Zero(t, wrapAngle(float32(math.NaN())))
	assert.InDelta(t, 3*math.Pi/2, wrapAngle(-math.Pi/2), 1e-5)
}

func TestWrapAngle_TinyNegativeStaysBelowFullTurn(t *testing.T) {
	for _, a := range []float32{-1e-9, -1e-8, -math.SmallestNonzeroFloat32} {
		w := wrapAngle(a)
		assert.GreaterOrEqual(t, w, float32(0), "%g", a)
		assert.Less(t, w, float32(fullTurn), "%g", a)
	}
}

func TestModelMatrix_SpinDoesNotMoveBody(t *testing.T) {
	sun := newBody(t, nil, Params{Name: "sun"})
	still := newBody(t, sun, Params{Name: "still", OrbitRadius: 10, OrbitSpeed: 0.4, Radius: 1})
	spinning := newBody(t, sun, Params{Name: "spinning", OrbitRadius: 10, OrbitSpeed: 0.4, Radius: 1, RotationSpeed: 1000})
	spinning.RotationAxis = mgl32.Vec3{1, 1, 0}

	for i := 0; i < 30; i++ {
		still.Update(0.05, 1)
		spinning.Update(0.05, 1)

		assertVec(t, still.AbsolutePosition(2), spinning.AbsolutePosition(2))

		origin := mgl32.Vec4{0, 0, 0, 1}
		a := still.ModelMatrix(1, 2).Mul4x1(origin).Vec3()
		b := spinning.ModelMatrix(1, 2).Mul4x1(origin).Vec3()
		assertVec(t, a, b)
		assertVec(t, still.AbsolutePosition(2), b)
	}
}

func TestModelMatrix_Composition(t *testing.T) {
	b := newBody(t, nil, Params{Name: "b", Position: mgl32.Vec3{5, 0, 0}, Radius: 2})
	b.RotationAngle = math.Pi / 2

	// unit +X on the sphere: scaled by 2*1.5, spun a quarter turn about Y,
	// then moved to (5,0,0)
	p := b.ModelMatrix(1.5, 1).Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assertVec(t, mgl32.Vec3{5, 0, 3}, p)
}

func TestSpinAndOrbitTurnTheSameWay(t *testing.T) {
	sun := newBody(t, nil, Params{Name: "sun"})
	p := newBody(t, sun, Params{
		Name:          "p",
		OrbitRadius:   1,
		Radius:        1,
		OrbitSpeed:    0.1,
		OrbitAxis:     mgl32.Vec3{0, 1, 0},
		RotationSpeed: 0.1,
		RotationAxis:  mgl32.Vec3{0, 1, 0},
	})
	p.Update(1, 1)

	orbit := p.AbsolutePosition(1)
	spun := p.ModelMatrix(1, 1).Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()

	assert.Greater(t, orbit.Z(), float32(0))
	assert.Greater(t, spun.Z(), float32(0))
	assert.InDelta(t, orbit.Z(), spun.Z(), 1e-5)
}

func TestModelMatrix_ZeroRadius(t *testing.T) {
	b := newBody(t, nil, Params{Name: "b", Position: mgl32.Vec3{1, 2, 3}})
	m := b.ModelMatrix(1, 1)
	for _, v := range m {
		assert.False(t, math.IsNaN(float64(v)))
		assert.False(t, math.IsInf(float64(v), 0))
	}
	assertVec(t, mgl32.Vec3{1, 2, 3}, m.Mul4x1(mgl32.Vec4{1, 1, 1, 1}).Vec3())
}

func TestModelMatrix_ZeroAxisIsNoRotation(t *testing.T) {
	b := newBody(t, nil, Params{Name: "b", Radius: 1})
	b.RotationAxis = mgl32.Vec3{}
	b.RotationAngle = 1
	assert.True(t, b.ModelMatrix(1, 1).ApproxEqual(mgl32.Ident4()))
}

func TestOrbitArm(t *testing.T) {
	assertVec(t, mgl32.Vec3{1, 0, 0}, orbitArm(mgl32.Vec3{0, 1, 0}))
	arm := orbitArm(mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, 0, arm.Dot(mgl32.Vec3{0, 0, 1}), eps)
	assert.InDelta(t, 1, arm.Len(), eps)
}

func TestRenderAndClose(t *testing.T) {
	rec := render.NewRecorder(4, 3)
	b, err := New(nil, Params{Name: "sun", Texture: render.TextureSpec{Path: "res/sun.jpg"}}, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.LiveTextures())

	rec.BeginFrame()
	b.Render(rec)
	require.NoError(t, rec.Present())
	require.Len(t, rec.LastFrame(), 1)
	assert.Equal(t, "res/sun.jpg", rec.LastFrame()[0].Texture)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.Equal(t, 0, rec.LiveTextures())

	rec.BeginFrame()
	b.Render(rec)
	require.NoError(t, rec.Present())
	assert.Empty(t, rec.LastFrame())
}
