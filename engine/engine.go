package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/camera"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/object"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/profiler"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/target"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// engine implements the Engine interface.
// Coordinates the tick loop, the render loop, and window input.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderer renderer.Renderer
	target   target.RenderTarget
	camera   camera.Camera

	objectsMu sync.Mutex
	objects   []object.Renderable

	// frameOptions builds the per-frame render options; nil yields the
	// zero options.
	frameOptions func(deltaTime float32) renderer.RenderOptions

	// inputClaimed suspends the built-in orbit controls while the host
	// consumes input itself.
	inputClaimed bool
	dragging     bool
	lastMouseX   int32
	lastMouseY   int32

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the runtime.
// It orchestrates the tick loop, the render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer, or nil if none was configured.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Camera returns the active camera, or nil.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback will be called at this rate for application updates.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for input processing, playback time, and object updates.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered
	// frame, receiving the measured frame delta time in seconds.
	//
	// Parameters:
	//   - callback: function to call each render frame
	SetRenderCallback(callback func(deltaTime float32))

	// SetFrameOptions registers the function that builds each frame's
	// render options (frame token, overlay, depth viz, order hint).
	//
	// Parameters:
	//   - build: the options builder, or nil for zero options
	SetFrameOptions(build func(deltaTime float32) renderer.RenderOptions)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// SetInputClaimed suspends or resumes the built-in orbit camera
	// controls, letting the host consume window input exclusively.
	//
	// Parameters:
	//   - claimed: true to suspend the built-in controls
	SetInputClaimed(claimed bool)

	// AddObject registers an object for rendering.
	//
	// Parameters:
	//   - obj: the object to register
	AddObject(obj object.Renderable)

	// RemoveObject removes an object by id and disposes it.
	//
	// Parameters:
	//   - id: the object's id
	RemoveObject(id uuid.UUID)

	// Objects returns a snapshot of the registered objects in insertion
	// order.
	//
	// Returns:
	//   - []object.Renderable: the registered objects
	Objects() []object.Renderable

	// Run starts the main engine loop (blocks until window closes).
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// When a window, renderer, target, and camera are all configured, resize
// propagation and the default orbit controls are wired automatically.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if wt, ok := e.target.(target.WindowTarget); ok {
				wt.Resize(width, height)
			}
			if e.camera != nil {
				e.camera.SetViewport(float32(width), float32(height))
			}
		})
		e.wireOrbitControls()
	}

	return e
}

// wireOrbitControls attaches the default camera controls: middle-drag
// rotates, scroll dollies along the view direction. Suspended while the
// host claims input.
func (e *engine) wireOrbitControls() {
	const rotateSpeed = 0.005
	const dollySpeed = 0.25

	e.window.SetMiddleMouseDownCallback(func(x, y int32) {
		e.dragging = true
		e.lastMouseX, e.lastMouseY = x, y
	})
	e.window.SetMiddleMouseUpCallback(func(x, y int32) {
		e.dragging = false
	})
	e.window.SetMouseMoveCallback(func(x, y int32) {
		if !e.dragging || e.inputClaimed || e.camera == nil {
			e.lastMouseX, e.lastMouseY = x, y
			return
		}
		dx := float32(x - e.lastMouseX)
		dy := float32(y - e.lastMouseY)
		e.lastMouseX, e.lastMouseY = x, y
		e.camera.Rotate(dx*rotateSpeed, dy*rotateSpeed)
	})
	e.window.SetScrollCallback(func(delta float32) {
		if e.inputClaimed || e.camera == nil {
			return
		}
		forward := e.camera.RotationMatrix().Mul3x1(mgl32.Vec3{0, 0, 1})
		e.camera.Translate(forward.Mul(delta * dollySpeed))
	})
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Run() {
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the tick, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleTick()
	go e.handleRender()
	go e.handleQuit()
}

// handleTick runs the fixed-rate tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for
// dynamic rate changes via tickRateChannel. Exits when the quit channel is
// closed.
func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own
// goroutine. Each iteration renders the registered objects through the
// configured target. Recovers from panics to avoid crashing the process and
// signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if e.renderer != nil && e.target != nil {
				var opts renderer.RenderOptions
				if e.frameOptions != nil {
					opts = e.frameOptions(dt)
				}
				if err := e.renderer.Render(e.target, e.camera, e.Objects(), opts); err != nil {
					log.Printf("frame skipped: %v", err)
				}
			}

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called after each rendered frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetFrameOptions(build func(deltaTime float32) renderer.RenderOptions) {
	e.frameOptions = build
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}

func (e *engine) SetInputClaimed(claimed bool) {
	e.inputClaimed = claimed
}

func (e *engine) AddObject(obj object.Renderable) {
	if obj == nil {
		return
	}
	e.objectsMu.Lock()
	defer e.objectsMu.Unlock()
	e.objects = append(e.objects, obj)
}

func (e *engine) RemoveObject(id uuid.UUID) {
	e.objectsMu.Lock()
	var removed object.Renderable
	for i, obj := range e.objects {
		if obj.ID() == id {
			removed = obj
			e.objects = append(e.objects[:i], e.objects[i+1:]...)
			break
		}
	}
	e.objectsMu.Unlock()

	if removed != nil {
		removed.Dispose()
	}
}

func (e *engine) Objects() []object.Renderable {
	e.objectsMu.Lock()
	defer e.objectsMu.Unlock()
	cp := make([]object.Renderable, len(e.objects))
	copy(cp, e.objects)
	return cp
}
