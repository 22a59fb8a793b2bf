// Package media wraps a playable video element behind toggle controls and
// mirrors its state for rendering.
package media

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrNoElement is returned by a detached controller's element.
var ErrNoElement = errors.New("no media element attached")

// Element is the native playback primitive a Controller drives.
type Element interface {
	Play() error
	Pause() error
	SetMuted(muted bool) error
	RequestFullscreen() error
}

// State is the mirrored element state used to pick control icons.
type State struct {
	Playing    bool `json:"playing"`
	Muted      bool `json:"muted"`
	Fullscreen bool `json:"fullscreen"` // set once requested, never cleared
}

// Controller toggles playback on an Element. Failed element calls leave
// the mirrored state unchanged and are logged, never returned.
type Controller struct {
	el     Element
	logger *zap.Logger

	mu    sync.Mutex
	state State
}

// NewController returns a controller for el. A nil el yields a detached
// controller whose toggles are no-ops.
func NewController(el Element, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{el: el, logger: logger}
}

// Attached reports whether the controller drives a real element.
func (c *Controller) Attached() bool {
	return c.el != nil
}

// State returns the mirrored state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TogglePlay plays a paused element or pauses a playing one.
func (c *Controller) TogglePlay() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Playing {
		if c.call("pause", c.pause) {
			c.state.Playing = false
		}
	} else if c.call("play", c.play) {
		c.state.Playing = true
	}
	return c.state
}

// ToggleMute flips the muted flag.
func (c *Controller) ToggleMute() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	want := !c.state.Muted
	if c.call("mute", func() error { return c.setMuted(want) }) {
		c.state.Muted = want
	}
	return c.state
}

// Fullscreen requests fullscreen. Unsupported requests are ignored. The
// flag is one-way and best effort: leaving fullscreen happens in the
// element itself and is not observed, so it is never cleared.
func (c *Controller) Fullscreen() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.call("fullscreen", c.fullscreen) {
		c.state.Fullscreen = true
	}
	return c.state
}

// Loaded records that the element switched to a new source, which starts
// paused. Mute and fullscreen carry over to the new source.
func (c *Controller) Loaded() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Playing = false
	return c.state
}

func (c *Controller) call(op string, fn func() error) bool {
	if err := fn(); err != nil {
		c.logger.Debug("media control failed", zap.String("op", op), zap.Error(err))
		return false
	}
	return true
}

func (c *Controller) play() error {
	if c.el == nil {
		return ErrNoElement
	}
	return c.el.Play()
}

func (c *Controller) pause() error {
	if c.el == nil {
		return ErrNoElement
	}
	return c.el.Pause()
}

func (c *Controller) setMuted(muted bool) error {
	if c.el == nil {
		return ErrNoElement
	}
	return c.el.SetMuted(muted)
}

func (c *Controller) fullscreen() error {
	if c.el == nil {
		return ErrNoElement
	}
	return c.el.RequestFullscreen()
}

// PlayIcon returns the icon for the play/pause button.
func (s State) PlayIcon() string {
	if s.Playing {
		return "⏸"
	}
	return "▶"
}

// MuteIcon returns the icon for the mute button.
func (s State) MuteIcon() string {
	if s.Muted {
		return "🔇"
	}
	return "🔊"
}
