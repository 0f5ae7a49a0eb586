// Package config loads settings from defaults, an optional config file,
// SOLAR_ environment variables and command line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"solar-system-explorer/camera"
	"solar-system-explorer/render"
	"solar-system-explorer/session"
)

const (
	RendererTerminal = "terminal"
	RendererHeadless = "headless"
)

type FrameConfig struct {
	FPS      int           `mapstructure:"fps"`
	MaxDelta time.Duration `mapstructure:"maxDelta"`
}

type ViewportConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type CameraConfig struct {
	Position        []float32 `mapstructure:"position"`
	Yaw             float32   `mapstructure:"yaw"`
	Pitch           float32   `mapstructure:"pitch"`
	Speed           float32   `mapstructure:"speed"`
	SlowFactor      float32   `mapstructure:"slowFactor"`
	Sensitivity     float32   `mapstructure:"sensitivity"`
	ZoomSensitivity float32   `mapstructure:"zoomSensitivity"`
	FOV             float32   `mapstructure:"fov"`
	FOVMin          float32   `mapstructure:"fovMin"`
	FOVMax          float32   `mapstructure:"fovMax"`
	PitchLimit      float32   `mapstructure:"pitchLimit"`
	Near            float32   `mapstructure:"near"`
	Far             float32   `mapstructure:"far"`
}

type SceneConfig struct {
	// File is a TOML catalog. Empty means the built-in solar system.
	File string `mapstructure:"file"`
}

type LightingConfig struct {
	Ambient       []float32 `mapstructure:"ambient"`
	Diffuse       []float32 `mapstructure:"diffuse"`
	Specular      []float32 `mapstructure:"specular"`
	GlobalAmbient []float32 `mapstructure:"globalAmbient"`
	Shininess     float32   `mapstructure:"shininess"`
}

type TerminalConfig struct {
	KeyHold time.Duration `mapstructure:"keyHold"`
}

type HTTPConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Addr         string   `mapstructure:"addr"`
	AllowOrigins []string `mapstructure:"allowOrigins"`
	// SnapshotRate is the number of snapshots published per second.
	SnapshotRate float64 `mapstructure:"snapshotRate"`
	QueueSize    int     `mapstructure:"queueSize"`
}

type Config struct {
	LogLevel string `mapstructure:"logLevel"`
	LogsDir  string `mapstructure:"logsDir"`
	Renderer string `mapstructure:"renderer"`
	// Frames stops the loop after that many frames. Zero runs until quit.
	Frames int `mapstructure:"frames"`

	Frame    FrameConfig      `mapstructure:"frame"`
	Viewport ViewportConfig   `mapstructure:"viewport"`
	Camera   CameraConfig     `mapstructure:"camera"`
	Settings session.Settings `mapstructure:"settings"`
	Scene    SceneConfig      `mapstructure:"scene"`
	Lighting LightingConfig   `mapstructure:"lighting"`
	Terminal TerminalConfig   `mapstructure:"terminal"`
	HTTP     HTTPConfig       `mapstructure:"http"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("renderer", RendererTerminal)
	viper.SetDefault("frames", 0)

	viper.SetDefault("frame.fps", 60)
	viper.SetDefault("frame.maxDelta", "250ms")

	viper.SetDefault("viewport.width", 1280)
	viper.SetDefault("viewport.height", 720)

	cam := camera.DefaultConfig()
	viper.SetDefault("camera.position", []float32{cam.Position[0], cam.Position[1], cam.Position[2]})
	viper.SetDefault("camera.yaw", cam.Yaw)
	viper.SetDefault("camera.pitch", cam.Pitch)
	viper.SetDefault("camera.speed", cam.Speed)
	viper.SetDefault("camera.slowFactor", cam.SlowFactor)
	viper.SetDefault("camera.sensitivity", cam.Sensitivity)
	viper.SetDefault("camera.zoomSensitivity", cam.ZoomSensitivity)
	viper.SetDefault("camera.fov", cam.FOV)
	viper.SetDefault("camera.fovMin", cam.FOVMin)
	viper.SetDefault("camera.fovMax", cam.FOVMax)
	viper.SetDefault("camera.pitchLimit", cam.PitchLimit)
	viper.SetDefault("camera.near", cam.Near)
	viper.SetDefault("camera.far", cam.Far)

	s := session.DefaultSettings()
	viper.SetDefault("settings.speed", s.Speed)
	viper.SetDefault("settings.radius", s.Radius)
	viper.SetDefault("settings.orbitDistance", s.OrbitDistance)

	viper.SetDefault("scene.file", "")

	l := render.DefaultLighting()
	viper.SetDefault("lighting.ambient", l.Ambient[:])
	viper.SetDefault("lighting.diffuse", l.Diffuse[:])
	viper.SetDefault("lighting.specular", l.Specular[:])
	viper.SetDefault("lighting.globalAmbient", l.GlobalAmbient[:])
	viper.SetDefault("lighting.shininess", l.Shininess)

	viper.SetDefault("terminal.keyHold", "600ms")

	viper.SetDefault("http.enabled", true)
	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("http.allowOrigins", []string{"http://localhost:4200"})
	viper.SetDefault("http.snapshotRate", 10)
	viper.SetDefault("http.queueSize", 64)
}

// NewFlagSet declares the command line flags.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "config file (toml, json or yaml)")
	fs.String("renderer", RendererTerminal, "renderer: terminal or headless")
	fs.Int("frames", 0, "stop after this many frames, 0 runs until quit")
	fs.String("http.addr", ":8080", "HTTP API listen address")
	fs.String("logLevel", "info", "log level: trace, debug, info, warn or error")
	return fs
}

// Load parses args and returns the merged configuration. pflag.ErrHelp is
// returned unwrapped when help was requested.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	setDefaults()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	for _, name := range []string{"renderer", "frames", "http.addr", "logLevel"} {
		if err := viper.BindPFlag(name, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	viper.SetEnvPrefix("SOLAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		viper.SetConfigName("solar-system")
		viper.AddConfigPath(".")
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Renderer {
	case RendererTerminal, RendererHeadless:
	default:
		return fmt.Errorf("unknown renderer %q", c.Renderer)
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", c.Frames)
	}
	if c.Frame.FPS <= 0 {
		return fmt.Errorf("frame.fps must be positive, got %d", c.Frame.FPS)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if len(c.Camera.Position) != 3 {
		return fmt.Errorf("camera.position needs 3 components, got %d", len(c.Camera.Position))
	}
	if c.Camera.PitchLimit <= 0 || c.Camera.PitchLimit >= 90 {
		return fmt.Errorf("camera.pitchLimit must be in (0, 90), got %g", c.Camera.PitchLimit)
	}
	if c.Camera.FOVMin <= 0 || c.Camera.FOVMin > c.Camera.FOVMax || c.Camera.FOVMax >= 180 {
		return fmt.Errorf("camera fov range [%g, %g] is invalid", c.Camera.FOVMin, c.Camera.FOVMax)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera near/far %g/%g are invalid", c.Camera.Near, c.Camera.Far)
	}
	if c.Frame.MaxDelta < 0 {
		return fmt.Errorf("frame.maxDelta must not be negative, got %s", c.Frame.MaxDelta)
	}
	if c.HTTP.QueueSize < 1 {
		return fmt.Errorf("http.queueSize must be at least 1, got %d", c.HTTP.QueueSize)
	}
	if c.HTTP.SnapshotRate < 0 {
		return fmt.Errorf("http.snapshotRate must not be negative, got %g", c.HTTP.SnapshotRate)
	}
	for name, v := range map[string][]float32{
		"ambient":       c.Lighting.Ambient,
		"diffuse":       c.Lighting.Diffuse,
		"specular":      c.Lighting.Specular,
		"globalAmbient": c.Lighting.GlobalAmbient,
	} {
		if len(v) != 4 {
			return fmt.Errorf("lighting.%s needs 4 components, got %d", name, len(v))
		}
	}
	return nil
}

func (c *Config) CameraConfig() camera.Config {
	p := c.Camera.Position
	return camera.Config{
		Position:        mgl32.Vec3{p[0], p[1], p[2]},
		Yaw:             c.Camera.Yaw,
		Pitch:           c.Camera.Pitch,
		Speed:           c.Camera.Speed,
		SlowFactor:      c.Camera.SlowFactor,
		Sensitivity:     c.Camera.Sensitivity,
		ZoomSensitivity: c.Camera.ZoomSensitivity,
		FOV:             c.Camera.FOV,
		FOVMin:          c.Camera.FOVMin,
		FOVMax:          c.Camera.FOVMax,
		PitchLimit:      c.Camera.PitchLimit,
		Near:            c.Camera.Near,
		Far:             c.Camera.Far,
	}
}

func vec4(v []float32) mgl32.Vec4 {
	return mgl32.Vec4{v[0], v[1], v[2], v[3]}
}

func (c *Config) LightingConfig() render.Lighting {
	return render.Lighting{
		Ambient:       vec4(c.Lighting.Ambient),
		Diffuse:       vec4(c.Lighting.Diffuse),
		Specular:      vec4(c.Lighting.Specular),
		GlobalAmbient: vec4(c.Lighting.GlobalAmbient),
		Shininess:     c.Lighting.Shininess,
	}
}
