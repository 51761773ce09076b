package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"satviz/internal/assets"
	"satviz/internal/camera"
	"satviz/internal/config"
	"satviz/internal/console"
	"satviz/internal/control"
	"satviz/internal/gpu"
	"satviz/internal/logging"
	"satviz/internal/metrics"
	"satviz/internal/orbit"
	"satviz/internal/scene"
	"satviz/internal/ui"
	"satviz/internal/utils"
)

const shininess = 16

// presenter brackets our raw GL draws with raylib's frame and draws the HUD
// on top.
type presenter struct {
	gl   *gpu.GL
	loop *scene.Loop
	box  *ui.CommandBox
}

func (p *presenter) BeginFrame() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	rl.DrawRenderBatchActive()
	p.gl.Viewport(rl.GetRenderWidth(), rl.GetRenderHeight())
}

func (p *presenter) Present() {
	p.gl.Unbind()
	rl.DisableDepthTest()
	if p.loop != nil {
		ui.DrawStatus(p.loop.Status(), rl.GetFPS())
	}
	p.box.Draw()
	rl.EndDrawing()
}

func pollInput(ctx context.Context, box *ui.CommandBox, typing bool) scene.Input {
	in := scene.Input{
		DT:     rl.GetFrameTime(),
		Width:  rl.GetScreenWidth(),
		Height: rl.GetScreenHeight(),
		Quit:   rl.WindowShouldClose() || ctx.Err() != nil,
	}
	if typing || box.Focused() {
		return in
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		in.Quit = true
	}
	if rl.IsKeyPressed(rl.KeyF2) {
		box.SetFocus(true)
	}

	in.Keys = camera.KeyState{
		Forward:   rl.IsKeyDown(rl.KeyW),
		Back:      rl.IsKeyDown(rl.KeyS),
		Left:      rl.IsKeyDown(rl.KeyA),
		Right:     rl.IsKeyDown(rl.KeyD),
		Rise:      rl.IsKeyDown(rl.KeyE),
		Sink:      rl.IsKeyDown(rl.KeyQ),
		PitchUp:   rl.IsKeyDown(rl.KeyUp),
		PitchDown: rl.IsKeyDown(rl.KeyDown),
		YawLeft:   rl.IsKeyDown(rl.KeyLeft),
		YawRight:  rl.IsKeyDown(rl.KeyRight),
	}

	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		pos := rl.GetMousePosition()
		in.Click, in.ClickX, in.ClickY = true, pos.X, pos.Y
	}
	return in
}

// run opens the window, loads everything and drives the render loop until
// the user quits or ctx ends.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sats, err := loadSatellites(ctx, cfg, logging.Component(log, "catalog"))
	if err != nil {
		return errors.Wrap(err, "load satellites")
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), "satviz")
	defer rl.CloseWindow()
	rl.SetExitKey(0)
	rl.SetTargetFPS(60)

	device, err := gpu.New(log)
	if err != nil {
		return err
	}
	manager := assets.NewManager(assets.Dir(cfg.Resources), device, gpu.RaylibDecoder{}, log)

	ui.AccentColor = ui.HexStringToColor(cfg.AccentColor)
	ui.HackerFont = rl.GetFontDefault()
	if fontPath := filepath.Join(cfg.Resources, fontName); fileExists(fontPath) {
		ui.HackerFont = rl.LoadFontEx(fontPath, 40, nil)
		rl.SetTextureFilter(ui.HackerFont.Texture, rl.FilterBilinear)
		defer rl.UnloadFont(ui.HackerFont)
	}

	blinn := &assets.ShaderAsset{VertexShaderName: "shader/Blinn_VS.glsl", FragmentShaderName: "shader/Blinn_FS.glsl"}
	blend := &assets.ShaderAsset{VertexShaderName: "shader/Blend_VS.glsl", FragmentShaderName: "shader/Blend_FS.glsl"}
	sphere := &assets.MeshAsset{Name: earthMeshName}
	satMesh := &assets.MeshAsset{Name: satelliteMeshName}
	earthColor := &assets.ImageAsset{Name: earthTextureName}
	textures := satelliteTextures()

	defer func() {
		for _, img := range textures.All() {
			manager.UnloadImage(img)
		}
		manager.UnloadImage(earthColor)
		manager.UnloadMesh(satMesh)
		manager.UnloadMesh(sphere)
		manager.UnloadShader(blend)
		manager.UnloadShader(blinn)
	}()

	for _, s := range []*assets.ShaderAsset{blinn, blend} {
		if err := manager.LoadShader(s); err != nil {
			return err
		}
	}
	if err := manager.LoadMesh(sphere); err != nil {
		return err
	}
	if err := manager.LoadMesh(satMesh); err != nil {
		return err
	}
	if err := loadTextures(manager, textures, earthColor, log); err != nil {
		return err
	}

	radius := float32(orbit.EarthRadius * cfg.SizeScale)
	earth := &scene.Earth{
		Sphere: sphere,
		Mat:    scene.Material{Shader: blinn, Color: earthColor, Normal: textures.Normal, Shininess: shininess},
		Radius: radius,
	}

	var markers []*scene.Marker
	if cfg.Markers != "" {
		plain, err := manager.ParsePlain(cfg.Markers)
		if err != nil {
			return err
		}
		mat := scene.Material{Shader: blinn, Color: textures.Selected, Normal: textures.Normal, Shininess: shininess}
		markers = buildMarkers(plain, satMesh, mat, radius, radius*markerScale)
		log.Info().Int("markers", len(markers)).Msg("ground markers placed")
	}

	var collector *metrics.Collector
	if cfg.MetricsAddr != "" {
		collector, err = metrics.New(prometheus.NewRegistry())
		if err != nil {
			return err
		}
		srv := collector.Serve(cfg.MetricsAddr, logging.Component(log, "metrics"))
		defer func() {
			shutdown, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			if err := srv.Shutdown(shutdown); err != nil {
				log.Debug().Err(err).Msg("metrics server shutdown")
			}
		}()
	}

	controls := control.New(cfg.SimulationSpeed, cfg.ColorMode)
	interp := console.New(controls, log)
	go func() {
		if err := interp.Run(ctx, os.Stdin, os.Stdout); err != nil {
			log.Warn().Err(err).Msg("console stopped")
		}
	}()

	eye := mgl32.Vec3{0, radius, 4 * radius}
	cam := camera.New(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, cfg.FOV, cfg.Near, cfg.Far, cfg.Width, cfg.Height)

	box := &ui.CommandBox{Label: "command", Bounds: rl.NewRectangle(10, 130, 400, 40), Max: 40}
	pres := &presenter{gl: device, box: box}

	loop := scene.New(scene.Config{
		Camera:        cam,
		Clock:         orbit.NewClock(cfg.SizeScale, cfg.EarthRotationPeriod),
		Satellites:    sats,
		Controls:      controls,
		Device:        device,
		Presenter:     pres,
		Earth:         earth,
		Markers:       markers,
		SatelliteMesh: satMesh,
		Blinn:         blinn,
		Blend:         blend,
		Textures:      textures,
		Light:         scene.DefaultLight(),
		Options: scene.Options{
			TranslationSpeed: cfg.TranslationSpeed,
			RotationSpeed:    cfg.RotationSpeed,
			SatelliteScale:   float32(cfg.SatelliteScale),
			PickRadiusFactor: cfg.PickRadiusFactor,
			Shininess:        shininess,
		},
		Metrics: collector,
		Log:     log,
	})
	pres.loop = loop

	log.Info().Int("satellites", len(sats)).Msg("render loop started")
	for loop.State() == scene.Running {
		typing := box.Focused()
		if line, ok := box.Update(); ok {
			if strings.EqualFold(strings.TrimSpace(line), "help") {
				utils.PrintFancy(os.Stdout, "command", utils.Cyan, interp.Help())
			} else if err := interp.Execute(line); err != nil {
				utils.PrintFancy(os.Stdout, "command", utils.Red, err.Error())
			}
		}
		loop.Frame(pollInput(ctx, box, typing))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
