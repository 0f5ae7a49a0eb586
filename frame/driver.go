// Package frame runs the per-frame simulation and render sequence.
package frame

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"solar-system-explorer/camera"
	"solar-system-explorer/celestial"
	"solar-system-explorer/input"
	"solar-system-explorer/metrics"
	"solar-system-explorer/render"
	"solar-system-explorer/session"
)

// Clock is a monotonic clock measured from an arbitrary start.
type Clock interface {
	Now() time.Duration
}

type systemClock struct{ start time.Time }

func (c systemClock) Now() time.Duration { return time.Since(c.start) }

// SystemClock returns a clock backed by the runtime's monotonic time.
func SystemClock() Clock { return systemClock{start: time.Now()} }

// Panel is an overlay rendered after the scene. Panels may change the
// settings and the MouseInSettings flag.
type Panel interface {
	Render(st *session.State)
}

// Publisher receives snapshots. Publish must not block.
type Publisher interface {
	Publish(s *Snapshot)
}

type Options struct {
	Device  render.Device
	Scene   *celestial.Scene
	Camera  *camera.Camera
	Input   *input.Aggregator
	State   *session.State
	Clock   Clock
	Sources []input.Source
	Panels  []Panel

	Lighting render.Lighting
	// MaxDelta caps the time step after a stall. Zero means no cap.
	MaxDelta time.Duration
	// SnapshotRate limits snapshot publication per second. Zero publishes
	// every frame.
	SnapshotRate float64
	Publishers   []Publisher

	Metrics *metrics.Collector
	Logger  zerolog.Logger
}

type Driver struct {
	device  render.Device
	scene   *celestial.Scene
	camera  *camera.Camera
	input   *input.Aggregator
	state   *session.State
	clock   Clock
	sources []input.Source
	panels  []Panel

	maxDelta   time.Duration
	limiter    *rate.Limiter
	publishers []Publisher
	latest     atomic.Pointer[Snapshot]

	metrics *metrics.Collector
	log     zerolog.Logger
	sampled zerolog.Logger

	started bool
	last    time.Duration
	frame   uint64
	simTime float64
}

func New(opts Options) (*Driver, error) {
	switch {
	case opts.Device == nil:
		return nil, errors.New("frame: no render device")
	case opts.Scene == nil:
		return nil, errors.New("frame: no scene")
	case opts.Camera == nil:
		return nil, errors.New("frame: no camera")
	case opts.State == nil:
		return nil, errors.New("frame: no session state")
	}
	if opts.Input == nil {
		opts.Input = input.NewAggregator()
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}

	d := &Driver{
		device:     opts.Device,
		scene:      opts.Scene,
		camera:     opts.Camera,
		input:      opts.Input,
		state:      opts.State,
		clock:      opts.Clock,
		sources:    opts.Sources,
		panels:     opts.Panels,
		maxDelta:   opts.MaxDelta,
		publishers: opts.Publishers,
		metrics:    opts.Metrics,
		log:        opts.Logger,
		sampled: opts.Logger.Sample(&zerolog.BurstSampler{
			Burst:       5,
			Period:      10 * time.Second,
			NextSampler: &zerolog.BasicSampler{N: 600},
		}),
	}
	if opts.SnapshotRate > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(opts.SnapshotRate), 1)
	}

	opts.Lighting.Apply(d.device)
	d.metrics.SetBodies(d.scene.Len())
	return d, nil
}

func (d *Driver) Input() *input.Aggregator { return d.input }

// Latest returns the most recently published snapshot, or nil before the
// first one.
func (d *Driver) Latest() *Snapshot { return d.latest.Load() }

func (d *Driver) Frame() uint64 { return d.frame }

// Step runs one frame.
func (d *Driver) Step() error {
	begin := time.Now()

	// delta time
	now := d.clock.Now()
	var elapsed time.Duration
	if d.started {
		elapsed = now - d.last
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if d.maxDelta > 0 && elapsed > d.maxDelta {
		d.sampled.Debug().Dur("elapsed", elapsed).Msg("clamping stalled frame")
		elapsed = d.maxDelta
	}
	d.started = true
	d.last = now
	dt := float32(elapsed.Seconds())

	// camera
	delta := d.input.Sample(dt)
	d.camera.Update(d.input.Movement(), delta)

	// projection and view
	proj := d.camera.ProjectionMatrix(d.device.Aspect())
	view := d.camera.ViewMatrix()

	// simulation, complete before anything is drawn
	d.scene.Update(dt, d.state.Speed)
	d.simTime += float64(dt) * float64(d.state.Speed)

	// draw
	d.device.BeginFrame()
	if sun := d.scene.Sun(); sun != nil {
		pos := sun.AbsolutePosition(d.state.OrbitDistance)
		d.device.SetLightPosition(view.Mul4x1(pos.Vec4(1)).Vec3())
	}
	for _, b := range d.scene.Bodies() {
		model := b.ModelMatrix(d.state.Radius, d.state.OrbitDistance)
		mv := view.Mul4(model)
		d.device.SetMVP(proj.Mul4(mv))
		d.device.SetMV(mv)
		d.device.SetNormalMatrix(NormalMatrix(mv))
		d.device.SetIsSun(b.Star)
		b.Render(d.device)
	}

	// overlay panels
	for _, p := range d.panels {
		p.Render(d.state)
	}

	// present
	if err := d.device.Present(); err != nil {
		return fmt.Errorf("present frame %d: %w", d.frame, err)
	}
	d.frame++

	d.publish()

	d.input.SetOverlayFocus(d.state.MouseInSettings)
	for _, s := range d.sources {
		s.Poll(d.input)
	}

	d.metrics.RecordFrame(time.Since(begin))
	d.metrics.SetSimulationSpeed(d.state.Speed)
	d.sampled.Debug().
		Uint64("frame", d.frame).
		Float32("dt", dt).
		Stringer("movement", d.input.Movement()).
		Msg("frame")
	return nil
}

// NormalMatrix is the inverse transpose of a model-view matrix. Singular
// matrices, e.g. from a zero radius, give the zero matrix.
func NormalMatrix(mv mgl32.Mat4) mgl32.Mat4 {
	return mv.Inv().Transpose()
}

func (d *Driver) publish() {
	if d.limiter != nil && !d.limiter.Allow() {
		return
	}
	snap := d.snapshot()
	d.latest.Store(snap)
	for _, p := range d.publishers {
		p.Publish(snap)
	}
}

func (d *Driver) snapshot() *Snapshot {
	s := &Snapshot{
		Frame:    d.frame,
		Time:     d.simTime,
		Settings: d.state.Settings,
		Camera: CameraState{
			Position: d.camera.Position,
			Yaw:      d.camera.Yaw(),
			Pitch:    d.camera.Pitch(),
			FOV:      d.camera.FOV(),
		},
		Bodies: make([]BodyState, 0, d.scene.Len()),
	}
	for _, b := range d.scene.Bodies() {
		s.Bodies = append(s.Bodies, bodyState(b, d.state.Settings))
	}
	return s
}

// Run steps frames at the given rate until the context ends, a quit is
// requested, or maxFrames frames were drawn (zero means no limit).
func (d *Driver) Run(ctx context.Context, fps, maxFrames int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	d.log.Info().Int("fps", fps).Int("bodies", d.scene.Len()).Msg("frame loop started")
	defer func() {
		d.log.Info().Uint64("frames", d.frame).Float64("simTime", d.simTime).Msg("frame loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Step(); err != nil {
				return err
			}
			if d.input.QuitRequested() {
				d.log.Info().Msg("quit requested")
				return nil
			}
			if maxFrames > 0 && d.frame >= uint64(maxFrames) {
				return nil
			}
		}
	}
}

// Close releases the bodies' textures and then the device.
func (d *Driver) Close() error {
	return errors.Join(d.scene.Close(), d.device.Close())
}
