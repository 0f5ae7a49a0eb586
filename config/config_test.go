package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-system-explorer/camera"
	"solar-system-explorer/render"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	return Load(NewFlagSet("test"), args)
}

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./logs", cfg.LogsDir)
	assert.Equal(t, RendererTerminal, cfg.Renderer)
	assert.Equal(t, 0, cfg.Frames)
	assert.Equal(t, 60, cfg.Frame.FPS)
	assert.Equal(t, 250*time.Millisecond, cfg.Frame.MaxDelta)
	assert.Equal(t, 600*time.Millisecond, cfg.Terminal.KeyHold)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.HTTP.Enabled)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.HTTP.AllowOrigins)
	assert.InDelta(t, 10, cfg.HTTP.SnapshotRate, 1e-9)
	assert.Empty(t, cfg.Scene.File)

	assert.Equal(t, camera.DefaultConfig(), cfg.CameraConfig())
	assert.Equal(t, render.DefaultLighting(), cfg.LightingConfig())
	assert.InDelta(t, 1, cfg.Settings.OrbitDistance, 1e-6)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solar.toml")
	content := `
logLevel = "debug"
renderer = "headless"
frames = 120

[camera]
position = [0.0, 50.0, -200.0]
fov = 60.0

[settings]
speed = 1.5
orbitDistance = 3.0

[http]
allowOrigins = ["*"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := load(t, "--config", path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, RendererHeadless, cfg.Renderer)
	assert.Equal(t, 120, cfg.Frames)
	assert.Equal(t, mgl32.Vec3{0, 50, -200}, cfg.CameraConfig().Position)
	assert.InDelta(t, 60, cfg.Camera.FOV, 1e-6)
	assert.InDelta(t, 1.5, cfg.Settings.Speed, 1e-6)
	assert.InDelta(t, 3, cfg.Settings.OrbitDistance, 1e-6)
	assert.InDelta(t, 1, cfg.Settings.Radius, 1e-6)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowOrigins)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solar.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"renderer": "headless", "frames": 10}`), 0644))

	cfg, err := load(t, "--config", path, "--frames", "3", "--http.addr", "127.0.0.1:9000")
	require.NoError(t, err)

	assert.Equal(t, RendererHeadless, cfg.Renderer)
	assert.Equal(t, 3, cfg.Frames)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SOLAR_FRAME_FPS", "30")
	t.Setenv("SOLAR_RENDERER", "headless")

	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Frame.FPS)
	assert.Equal(t, RendererHeadless, cfg.Renderer)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := load(t, "--config", "/nonexistent/solar.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(t, "--renderer", "opengl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opengl")

	_, err = load(t, "--frames", "-1")
	assert.Error(t, err)

	_, err = load(t, "--unknown")
	assert.Error(t, err)
}

func TestLoad_Help(t *testing.T) {
	_, err := load(t, "--help")
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestValidate(t *testing.T) {
	t.Cleanup(viper.Reset)
	cfg, err := Load(NewFlagSet("test"), nil)
	require.NoError(t, err)

	bad := *cfg
	bad.Camera.PitchLimit = 90
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Camera.Position = []float32{1, 2}
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Lighting.Diffuse = nil
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Camera.Near = 0
	assert.Error(t, bad.Validate())
	for _, size := range []int{0, -1} {
		bad = *cfg
		bad.HTTP.QueueSize = size
		assert.ErrorContains(t, bad.Validate(), "http.queueSize")
	}

	bad = *cfg
	bad.HTTP.SnapshotRate = -1
	assert.ErrorContains(t, bad.Validate(), "http.snapshotRate")

	bad = *cfg
	bad.Frame.MaxDelta = -time.Second
	assert.Error(t, bad.Validate())
}

func TestLoad_RejectsBadQueueSizeFromEnv(t *testing.T) {
	t.Setenv("SOLAR_HTTP_QUEUESIZE", "-1")

	_, err := load(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.queueSize")
}
