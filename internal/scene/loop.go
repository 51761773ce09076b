package scene

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"satviz/internal/assets"
	"satviz/internal/camera"
	"satviz/internal/control"
	"satviz/internal/logging"
	"satviz/internal/metrics"
	"satviz/internal/orbit"
	"satviz/internal/utils"
)

// State of the render loop. A loop starts Running and leaves it once.
type State int

const (
	Running State = iota
	Exiting
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "exiting"
}

// Input is one frame of window system input.
type Input struct {
	DT     float32 // real seconds since the previous frame
	Keys   camera.KeyState
	Click  bool
	ClickX float32
	ClickY float32
	Quit   bool
	Width  int
	Height int
}

type Options struct {
	TranslationSpeed float32
	RotationSpeed    float32
	SatelliteScale   float32
	// PickRadiusFactor times the scaled satellite radius bounds how far a
	// click may land from a satellite. Zero disables the bound.
	PickRadiusFactor float32
	Shininess        float32
}

type Config struct {
	Camera     *camera.Camera
	Clock      *orbit.Clock
	Satellites []*orbit.Satellite
	Controls   *control.Controls
	Device     Device
	Presenter  Presenter

	Earth         *Earth
	Markers       []*Marker
	SatelliteMesh *assets.MeshAsset
	Blinn         *assets.ShaderAsset
	Blend         *assets.ShaderAsset
	Textures      *SatelliteTextures
	Light         Light
	Options       Options

	Metrics *metrics.Collector
	Log     zerolog.Logger
}

// Loop owns the camera, the clock and the satellite state while it runs.
type Loop struct {
	cfg   Config
	state State
	log   zerolog.Logger

	speed     float64
	colorMode control.ColorMode
	realTime  float64
	visible   int
}

func New(cfg Config) *Loop {
	l := &Loop{
		cfg:   cfg,
		state: Running,
		log:   logging.Component(cfg.Log, "scene"),
	}
	snap := cfg.Controls.Take()
	l.speed, l.colorMode = snap.Speed, snap.ColorMode
	if snap.HasFilter {
		snap.Filter.Apply(cfg.Satellites)
	}
	l.visible = countVisible(cfg.Satellites)
	cfg.Metrics.SetSatellites(len(cfg.Satellites))
	return l
}

func countVisible(sats []*orbit.Satellite) int {
	n := 0
	for _, s := range sats {
		if s.Visible {
			n++
		}
	}
	return n
}

func (l *Loop) State() State                   { return l.state }
func (l *Loop) Camera() *camera.Camera         { return l.cfg.Camera }
func (l *Loop) Satellites() []*orbit.Satellite { return l.cfg.Satellites }

// Frame runs one iteration and returns the resulting state. Once Exiting it
// does nothing.
func (l *Loop) Frame(in Input) State {
	if l.state == Exiting {
		return l.state
	}
	if in.Quit {
		l.state = Exiting
		l.log.Info().Float64("sim_seconds", l.cfg.Clock.Total).Msg("exit requested")
		return l.state
	}
	start := time.Now()

	cam := l.cfg.Camera
	if in.Width > 0 && in.Height > 0 && (in.Width != cam.Width || in.Height != cam.Height) {
		cam.Resize(in.Width, in.Height)
	}
	opts := l.cfg.Options
	cam.Move(in.Keys, in.DT, opts.TranslationSpeed, opts.RotationSpeed)

	l.applyControls()

	l.cfg.Clock.Advance(float64(in.DT), l.speed)
	l.realTime += float64(in.DT)

	propStart := time.Now()
	l.visible = orbit.Propagate(l.cfg.Satellites, l.cfg.Clock)
	propagation := time.Since(propStart)

	if in.Click {
		l.pick(in.ClickX, in.ClickY)
	}

	rotation := float32(l.cfg.Clock.EarthRotation())
	l.cfg.Earth.Rotation = rotation
	for _, m := range l.cfg.Markers {
		m.Rotation = rotation
	}

	l.draw()

	l.cfg.Metrics.ObserveFrame(time.Since(start), propagation, l.visible, l.cfg.Clock.Total, l.speed)
	return l.state
}

func (l *Loop) applyControls() {
	snap := l.cfg.Controls.Take()
	if snap.Speed != l.speed {
		l.log.Info().Float64("speed", snap.Speed).Msg("simulation speed changed")
	}
	if snap.ColorMode != l.colorMode {
		l.log.Info().Stringer("mode", snap.ColorMode).Msg("color mode changed")
	}
	l.speed, l.colorMode = snap.Speed, snap.ColorMode

	if snap.HasFilter {
		n := snap.Filter.Apply(l.cfg.Satellites)
		l.log.Info().Str("filter", string(snap.Filter)).Int("visible", n).Msg("visibility changed")
	}
}

func (l *Loop) pickRadius() float32 {
	o := l.cfg.Options
	if o.PickRadiusFactor <= 0 || l.cfg.SatelliteMesh == nil {
		return 0
	}
	return o.PickRadiusFactor * meshRadius(l.cfg.SatelliteMesh) * o.SatelliteScale
}

func (l *Loop) pick(x, y float32) {
	idx := l.cfg.Camera.Pick(x, y, l.cfg.Satellites, l.pickRadius())
	l.cfg.Metrics.ObservePick(idx >= 0)
	if idx < 0 {
		l.log.Debug().Float32("x", x).Float32("y", y).Msg("pick missed")
		return
	}
	s := l.cfg.Satellites[idx]
	l.log.Info().
		Str("satellite", s.Name).
		Stringer("users", s.Users).
		Stringer("class", s.Class).
		Msg("selected")
}

// pulse swings between 0 and 1 once per real second.
func (l *Loop) pulse() float32 {
	f := 0.5 + 0.5*math.Sin(2*math.Pi*l.realTime)
	return float32(utils.Clamp(f, 0, 1))
}

func (l *Loop) satelliteMaterial(s *orbit.Satellite) Material {
	tex := l.cfg.Textures
	mat := Material{
		Shader:    l.cfg.Blinn,
		Color:     tex.For(s, l.colorMode),
		Normal:    tex.Normal,
		Shininess: l.cfg.Options.Shininess,
	}
	if !s.Selected {
		return mat
	}
	if l.cfg.Blend != nil && l.cfg.Blend.IsLoaded {
		mat.Shader = l.cfg.Blend
		mat.Second = tex.Selected
		mat.Fraction = l.pulse()
	} else if tex.Selected != nil {
		mat.Color = tex.Selected
	}
	return mat
}

func (l *Loop) draw() {
	l.cfg.Presenter.BeginFrame()
	l.cfg.Device.Clear()

	cam := l.cfg.Camera
	viewProjection := cam.Projection().Mul4(cam.View())

	l.drawObject(l.cfg.Earth, viewProjection)
	for _, m := range l.cfg.Markers {
		l.drawObject(m, viewProjection)
	}
	for _, s := range l.cfg.Satellites {
		if !s.Visible {
			continue
		}
		l.drawObject(satelliteObject{
			sat:   s,
			mesh:  l.cfg.SatelliteMesh,
			mat:   l.satelliteMaterial(s),
			scale: l.cfg.Options.SatelliteScale,
		}, viewProjection)
	}

	l.cfg.Presenter.Present()
}

func (l *Loop) drawObject(obj Renderable, viewProjection mgl32.Mat4) {
	mesh := obj.Mesh()
	mat := obj.Material()
	if mesh == nil || !mesh.IsLoaded || mat.Shader == nil || !mat.Shader.IsLoaded {
		return
	}
	d := l.cfg.Device
	u := mat.Shader.Uniforms
	model := obj.Model()

	d.UseProgram(mat.Shader.ProgramHandle)
	l.setMatrix(u.ModelViewProjection, viewProjection.Mul4(model))
	l.setMatrix(u.Model, model)

	light := l.cfg.Light
	l.setVec3(u.LightDirection, light.Direction)
	l.setVec4(u.LightAmbient, light.Ambient)
	l.setVec4(u.LightDiffuse, light.Diffuse)
	l.setVec4(u.LightSpecular, light.Specular)
	l.setVec3(u.CameraPosition, l.cfg.Camera.Eye)
	l.setFloat(u.Shininess, mat.Shininess)

	if mat.Color != nil && mat.Color.IsLoaded {
		d.BindTexture(colorUnit, mat.Color.Handle)
		l.setInt(u.ColorTexture, colorUnit)
		l.setInt(u.ColorTextureOne, colorUnit)
	}
	if mat.Normal != nil && mat.Normal.IsLoaded {
		d.BindTexture(normalUnit, mat.Normal.Handle)
		l.setInt(u.NormalTexture, normalUnit)
	}
	if mat.Second != nil && mat.Second.IsLoaded {
		d.BindTexture(secondColorUnit, mat.Second.Handle)
		l.setInt(u.ColorTextureTwo, secondColorUnit)
		l.setFloat(u.TextureFraction, mat.Fraction)
	}

	d.BindMesh(mesh)
	d.DrawTriangles(mesh.IndexCount)
}

// Locations of -1 belong to uniforms the program does not use.

func (l *Loop) setMatrix(loc int32, m mgl32.Mat4) {
	if loc >= 0 {
		l.cfg.Device.SetMatrix(loc, m)
	}
}

func (l *Loop) setVec3(loc int32, v mgl32.Vec3) {
	if loc >= 0 {
		l.cfg.Device.SetVec3(loc, v)
	}
}

func (l *Loop) setVec4(loc int32, v mgl32.Vec4) {
	if loc >= 0 {
		l.cfg.Device.SetVec4(loc, v)
	}
}

func (l *Loop) setFloat(loc int32, v float32) {
	if loc >= 0 {
		l.cfg.Device.SetFloat(loc, v)
	}
}

func (l *Loop) setInt(loc int32, v int32) {
	if loc >= 0 {
		l.cfg.Device.SetInt(loc, v)
	}
}

// Status is a snapshot for the HUD.
type Status struct {
	State      State
	SimSeconds float64
	Speed      float64
	ColorMode  control.ColorMode
	Visible    int
	Total      int
	Selected   string
}

func (l *Loop) Status() Status {
	st := Status{
		State:      l.state,
		SimSeconds: l.cfg.Clock.Total,
		Speed:      l.speed,
		ColorMode:  l.colorMode,
		Visible:    l.visible,
		Total:      len(l.cfg.Satellites),
	}
	for _, s := range l.cfg.Satellites {
		if s.Selected {
			st.Selected = s.Name
			break
		}
	}
	return st
}
