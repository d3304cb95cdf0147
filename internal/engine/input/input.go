// Package input polls SDL2 events and maps keys to walkthrough actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is something the player can do from the keyboard.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionStrafeLeft
	ActionStrafeRight
	ActionFlyUp
	ActionFlyDown
	ActionLookUp
	ActionLookDown
	ActionTurnLeft
	ActionTurnRight
	ActionToggleDoor
	ActionToggleTexture
	ActionToggleFullscreen
	ActionToggleBoxes
	ActionScreenshot
	ActionQuit
)

// Bindings maps scancodes to actions.
type Bindings map[sdl.Scancode]Action

// DefaultBindings returns WASD movement, arrow-key rotation, Shift/Space
// flight and the toggle keys.
func DefaultBindings() Bindings {
	return Bindings{
		sdl.SCANCODE_W:      ActionForward,
		sdl.SCANCODE_S:      ActionBackward,
		sdl.SCANCODE_A:      ActionStrafeLeft,
		sdl.SCANCODE_D:      ActionStrafeRight,
		sdl.SCANCODE_LSHIFT: ActionFlyUp,
		sdl.SCANCODE_SPACE:  ActionFlyDown,
		sdl.SCANCODE_UP:     ActionLookUp,
		sdl.SCANCODE_DOWN:   ActionLookDown,
		sdl.SCANCODE_LEFT:   ActionTurnLeft,
		sdl.SCANCODE_RIGHT:  ActionTurnRight,
		sdl.SCANCODE_E:      ActionToggleDoor,
		sdl.SCANCODE_T:      ActionToggleTexture,
		sdl.SCANCODE_F11:    ActionToggleFullscreen,
		sdl.SCANCODE_B:      ActionToggleBoxes,
		sdl.SCANCODE_F12:    ActionScreenshot,
		sdl.SCANCODE_ESCAPE: ActionQuit,
	}
}

// Input tracks held keys, one-shot key presses and mouse motion per frame.
type Input struct {
	bindings Bindings
	held     map[Action]bool
	pressed  map[Action]bool

	mouseDX float32
	mouseDY float32

	resized       bool
	width, height int
	quit          bool
}

// New creates an input handler with the given bindings.
func New(b Bindings) *Input {
	return &Input{
		bindings: b,
		held:     make(map[Action]bool),
		pressed:  make(map[Action]bool),
	}
}

// Update polls every pending SDL event. It returns true once the window
// was closed or the quit key pressed.
func (i *Input) Update() bool {
	i.beginFrame()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.handle(event)
	}
	return i.quit
}

func (i *Input) beginFrame() {
	clear(i.pressed)
	i.mouseDX, i.mouseDY = 0, 0
	i.resized = false
}

func (i *Input) handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.resized = true
			i.width, i.height = int(e.Data1), int(e.Data2)
		}

	case *sdl.KeyboardEvent:
		action, ok := i.bindings[e.Keysym.Scancode]
		if !ok {
			return
		}
		switch e.Type {
		case sdl.KEYDOWN:
			i.held[action] = true
			if e.Repeat == 0 {
				i.pressed[action] = true
			}
			if action == ActionQuit {
				i.quit = true
			}
		case sdl.KEYUP:
			i.held[action] = false
		}

	case *sdl.MouseMotionEvent:
		i.mouseDX += float32(e.XRel)
		i.mouseDY += float32(e.YRel)
	}
}

// Held reports whether a key bound to a is down.
func (i *Input) Held(a Action) bool {
	return i.held[a]
}

// Pressed reports whether a key bound to a went down this frame.
// Auto-repeat does not count.
func (i *Input) Pressed(a Action) bool {
	return i.pressed[a]
}

// MouseDelta returns the relative mouse motion of this frame.
func (i *Input) MouseDelta() (dx, dy float32) {
	return i.mouseDX, i.mouseDY
}

// Resized returns the new window size if it changed this frame.
func (i *Input) Resized() (width, height int, ok bool) {
	return i.width, i.height, i.resized
}
