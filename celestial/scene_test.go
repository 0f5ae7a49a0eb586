package celestial

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-system-explorer/models"
	"solar-system-explorer/render"
)

func TestBuild_ReferenceScene(t *testing.T) {
	rec := render.NewRecorder(800, 600)
	scene, err := Build(models.GetSolarSystemBodies(), rec)
	require.NoError(t, err)
	t.Cleanup(func() { _ = scene.Close() })

	assert.Equal(t, 10, scene.Len())
	assert.Equal(t, 10, rec.LiveTextures())

	sun := scene.Sun()
	require.NotNil(t, sun)
	assert.Equal(t, "Sun", sun.Name)
	assert.Nil(t, sun.Parent())

	moon, ok := scene.Lookup("MOON")
	require.True(t, ok)
	earth, _ := scene.Lookup("earth")
	assert.Same(t, earth, moon.Parent())

	// moon sits 0.38 beyond earth at angle zero
	want := mgl32.Vec3{14.9 + 0.38, 0, 0}
	assert.True(t, want.ApproxEqualThreshold(moon.AbsolutePosition(1), 1e-4))
}

func TestScene_UpdateAndClose(t *testing.T) {
	rec := render.NewRecorder(800, 600)
	scene, err := Build(models.GetSolarSystemBodies(), rec)
	require.NoError(t, err)

	scene.Update(0.5, 1)
	for _, b := range scene.Bodies() {
		assert.InDelta(t, wrapAngle(b.RotationSpeed*0.5), b.RotationAngle, 1e-5, b.Name)
	}

	require.NoError(t, scene.Close())
	assert.Equal(t, 0, rec.LiveTextures())
	require.NoError(t, scene.Close())
}

type failingLoader struct {
	inner *render.Recorder
	fail  string
}

func (l failingLoader) LoadTexture(spec render.TextureSpec) (render.Texture, error) {
	if spec.Path == l.fail {
		return nil, errors.New("no such file")
	}
	return l.inner.LoadTexture(spec)
}

func TestBuild_ReleasesTexturesOnFailure(t *testing.T) {
	rec := render.NewRecorder(1, 1)
	_, err := Build(models.GetSolarSystemBodies(), failingLoader{inner: rec, fail: "res/mars.jpg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mars")
	assert.Equal(t, 0, rec.LiveTextures())
}

func TestBuild_InvalidCatalog(t *testing.T) {
	_, err := Build([]models.Planet{{Name: "moon", Parent: "earth"}}, render.NewRecorder(1, 1))
	assert.ErrorIs(t, err, models.ErrUnknownParent)
}
