// Package input synthesizes mouse and keyboard events through one
// platform device selected at process start. Orchestration (click,
// drag, typing cadence) lives here; the per-OS devices only know how
// to emit single events.
package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deskctl/deskctl/internal/logging"
)

var log = logging.New("input")

// ErrPrerequisites reports that a required injection mechanism is
// missing on this system.
var ErrPrerequisites = errors.New("input prerequisites unavailable")

// Button is a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "left"
	}
}

// ParseButton converts a flag value to a Button.
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "":
		return ButtonLeft, nil
	case "right":
		return ButtonRight, nil
	case "middle":
		return ButtonMiddle, nil
	default:
		return ButtonLeft, fmt.Errorf("unknown mouse button %q (expected left, right, or middle)", s)
	}
}

// Device emits single input events at absolute screen coordinates.
// Implementations are synchronous: when a method returns, the event
// has been handed to the OS.
type Device interface {
	// Name identifies the active mechanism, e.g. "xdotool" or "win32".
	Name() string
	Move(x, y int) error
	MouseDown(x, y int, b Button) error
	MouseUp(x, y int, b Button) error
	// Scroll dispatches wheel deltas. Positive dy scrolls toward the
	// user (down), positive dx scrolls right.
	Scroll(dx, dy int) error
	// KeyDown and KeyUp take platform key names (X11 keysym style:
	// "Return", "ctrl", "a").
	KeyDown(key string) error
	KeyUp(key string) error
	// TypeText types arbitrary Unicode text.
	TypeText(text string) error
}

// NewDeviceFunc is set by the platform-specific file's init(). It
// stays nil on unsupported platforms.
var NewDeviceFunc func() (Device, error)

// New returns the platform device. On unsupported platforms, or when
// the platform device cannot initialize, it degrades to a device that
// logs attempted actions without performing them. That fallback is
// deliberate: automation scripts keep running instead of crashing.
func New() Device {
	if NewDeviceFunc == nil {
		log.Warn("no input backend for this platform, actions will be logged only")
		return newNoopDevice()
	}
	d, err := NewDeviceFunc()
	if err != nil {
		log.Warn("input backend failed to initialize, actions will be logged only", "err", err)
		return newNoopDevice()
	}
	return d
}
