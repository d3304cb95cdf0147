// Package game implements the walkthrough main loop.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/assets"
	"github.com/Faultbox/walkthrough/internal/config"
	"github.com/Faultbox/walkthrough/internal/engine/camera"
	"github.com/Faultbox/walkthrough/internal/engine/debug"
	"github.com/Faultbox/walkthrough/internal/engine/input"
	"github.com/Faultbox/walkthrough/internal/engine/renderer"
	"github.com/Faultbox/walkthrough/internal/engine/scene"
	"github.com/Faultbox/walkthrough/internal/engine/window"
	"github.com/Faultbox/walkthrough/internal/game/world"
	"github.com/Faultbox/walkthrough/internal/logger"
)

const (
	// maxFrameTime caps dt so a stall does not teleport the walker through walls.
	maxFrameTime = 0.1
	// lookDistance is how far the title bar reports what the eye is facing.
	lookDistance = 20
)

// Game is the walkthrough instance.
type Game struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	files    *assets.Manager
	scene    *scene.Scene
	walker   *world.MovementController
	shots    *debug.Screenshots

	groundReady bool
}

// New opens the window, loads the world and places the camera.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing walkthrough",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	g := &Game{config: cfg}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	rc := renderer.DefaultConfig()
	rc.Width, rc.Height = g.window.DrawableSize()
	rc.WorldTexScale = cfg.Scene.WorldTexScale
	g.renderer, err = renderer.New(rc)
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New(input.DefaultBindings())
	g.shots = debug.NewScreenshots("", "walkthrough")

	g.files = assets.NewManager()
	for _, dir := range cfg.Scene.SearchPaths {
		g.files.AddRoot(dir)
	}

	g.scene = scene.New(cfg.SceneSettings(), g.renderer.Uploader())
	g.scene.SetOpener(g.files)
	g.scene.AfterLoad = g.prepareGround
	g.walker = world.NewMovementController(g.scene, camera.New(cfg.CameraSettings()))

	world.Populate(g.scene, cfg.Scene, g.files)
	g.walker.Spawn(cfg.Scene.SpawnAnchor, cfg.Scene.SpawnDistance)
	if !g.groundReady {
		// Nothing loaded; still give the walker something to stand on.
		g.renderer.PrepareGround(nil)
	}

	g.window.CaptureMouse(true)
	logger.Info("walkthrough initialized", zap.Int("meshes", len(g.scene.Meshes())))
	return g, nil
}

// prepareGround runs after each successful load; the textures are built
// only the first time.
func (g *Game) prepareGround(*scene.Scene) {
	if g.groundReady {
		return
	}
	g.renderer.PrepareGround(world.FloorImage(g.config.Scene.FloorTexture))
	g.groundReady = true
}

// Run starts the main loop.
func (g *Game) Run() error {
	g.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")

	for g.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now
		if dt > maxFrameTime {
			dt = maxFrameTime
		}

		// 1. Process input
		if g.input.Update() || g.input.Pressed(input.ActionQuit) {
			g.running = false
			break
		}
		if _, _, ok := g.input.Resized(); ok {
			g.renderer.Resize(g.window.DrawableSize())
		}
		g.handleToggles()

		// 2. Update walker and doors
		g.walker.Update(g.intent(), dt)

		// 3. Render
		cam := g.walker.Camera()
		aspect := g.renderer.Aspect()
		g.renderer.Draw(g.scene, renderer.View{
			Position:   cam.Position,
			View:       cam.ViewMatrix(),
			Projection: cam.Projection(aspect),
		})

		// 4. Present (swap buffers)
		g.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			title := fmt.Sprintf("%s - %d fps - %d/%d meshes",
				g.config.Window.Title, frameCount, g.renderer.Visible, len(g.scene.Meshes()))
			if box, dist, ok := g.scene.Pick(cam.Position, cam.Front(), lookDistance); ok {
				title += fmt.Sprintf(" - %s %.1fm", box.Name, dist)
			}
			g.window.SetTitle(title)
			logger.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// intent maps held keys and mouse motion to a walker intent.
func (g *Game) intent() world.Intent {
	in := g.input
	dx, dy := in.MouseDelta()
	return world.Intent{
		Forward:     in.Held(input.ActionForward),
		Backward:    in.Held(input.ActionBackward),
		StrafeLeft:  in.Held(input.ActionStrafeLeft),
		StrafeRight: in.Held(input.ActionStrafeRight),
		FlyUp:       in.Held(input.ActionFlyUp),
		FlyDown:     in.Held(input.ActionFlyDown),
		LookUp:      in.Held(input.ActionLookUp),
		LookDown:    in.Held(input.ActionLookDown),
		TurnLeft:    in.Held(input.ActionTurnLeft),
		TurnRight:   in.Held(input.ActionTurnRight),
		MouseDX:     dx,
		MouseDY:     dy,
		ToggleDoor:  in.Pressed(input.ActionToggleDoor),
	}
}

// handleToggles applies the one-shot display keys.
func (g *Game) handleToggles() {
	in := g.input
	if in.Pressed(input.ActionToggleTexture) {
		g.renderer.CycleTexture()
	}
	if in.Pressed(input.ActionToggleBoxes) {
		logger.Info("bounding boxes", zap.Bool("visible", g.renderer.ToggleBoxes()))
	}
	if in.Pressed(input.ActionToggleFullscreen) {
		g.window.ToggleFullscreen()
		g.renderer.Resize(g.window.DrawableSize())
	}
	if in.Pressed(input.ActionScreenshot) {
		pixels, w, h := g.renderer.ReadPixels()
		path, err := g.shots.Save(pixels, w, h)
		if err != nil {
			logger.Warn("screenshot failed", zap.Error(err))
		} else {
			logger.Info("screenshot saved", zap.String("path", path))
		}
	}
}

// Close releases scene, GPU and window resources in that order.
func (g *Game) Close() {
	logger.Info("closing walkthrough")

	if g.scene != nil {
		g.scene.Close()
	}
	if g.files != nil {
		g.files.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.CaptureMouse(false)
		g.window.Close()
	}
}
