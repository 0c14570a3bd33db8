//go:build darwin

package input

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>

static int cg_mouse_event(CGEventType type, double x, double y, CGMouseButton button) {
	CGEventRef ev = CGEventCreateMouseEvent(NULL, type, CGPointMake(x, y), button);
	if (ev == NULL) {
		return -1;
	}
	CGEventPost(kCGHIDEventTap, ev);
	CFRelease(ev);
	return 0;
}

static int cg_scroll_event(int dy, int dx) {
	CGEventRef ev = CGEventCreateScrollWheelEvent(NULL, kCGScrollEventUnitLine, 2, dy, dx);
	if (ev == NULL) {
		return -1;
	}
	CGEventPost(kCGHIDEventTap, ev);
	CFRelease(ev);
	return 0;
}

static int cg_key_event(CGKeyCode code, bool down) {
	CGEventRef ev = CGEventCreateKeyboardEvent(NULL, code, down);
	if (ev == NULL) {
		return -1;
	}
	CGEventPost(kCGHIDEventTap, ev);
	CFRelease(ev);
	return 0;
}

static int cg_unicode_event(UniChar unit, bool down) {
	CGEventRef ev = CGEventCreateKeyboardEvent(NULL, 0, down);
	if (ev == NULL) {
		return -1;
	}
	CGEventKeyboardSetUnicodeString(ev, 1, &unit);
	CGEventPost(kCGHIDEventTap, ev);
	CFRelease(ev);
	return 0;
}
*/
import "C"

import (
	"fmt"
	"strings"
	"time"
)

func init() {
	NewDeviceFunc = newQuartzDevice
}

// quartzDevice posts synthetic CGEvents at the HID tap. Requires the
// Accessibility permission; without it the events are created but
// silently dropped by the window server.
type quartzDevice struct {
	// last known pointer position, kept so button events carry
	// coordinates even when the caller presses without moving first.
	x, y int
}

func newQuartzDevice() (Device, error) {
	return &quartzDevice{}, nil
}

func (*quartzDevice) Name() string { return "quartz" }

func (d *quartzDevice) Move(x, y int) error {
	d.x, d.y = x, y
	if C.cg_mouse_event(C.kCGEventMouseMoved, C.double(x), C.double(y), C.kCGMouseButtonLeft) != 0 {
		return fmt.Errorf("create mouse move event")
	}
	return nil
}

func quartzButton(b Button) (down, up C.CGEventType, btn C.CGMouseButton) {
	switch b {
	case ButtonRight:
		return C.kCGEventRightMouseDown, C.kCGEventRightMouseUp, C.kCGMouseButtonRight
	case ButtonMiddle:
		return C.kCGEventOtherMouseDown, C.kCGEventOtherMouseUp, C.kCGMouseButtonCenter
	default:
		return C.kCGEventLeftMouseDown, C.kCGEventLeftMouseUp, C.kCGMouseButtonLeft
	}
}

func (d *quartzDevice) MouseDown(x, y int, b Button) error {
	d.x, d.y = x, y
	down, _, btn := quartzButton(b)
	if C.cg_mouse_event(down, C.double(x), C.double(y), btn) != 0 {
		return fmt.Errorf("create %s mouse down event", b)
	}
	return nil
}

func (d *quartzDevice) MouseUp(x, y int, b Button) error {
	d.x, d.y = x, y
	_, up, btn := quartzButton(b)
	if C.cg_mouse_event(up, C.double(x), C.double(y), btn) != 0 {
		return fmt.Errorf("create %s mouse up event", b)
	}
	return nil
}

// Scroll negates dy so that positive values scroll content down, the
// same direction the other platforms use.
func (*quartzDevice) Scroll(dx, dy int) error {
	if C.cg_scroll_event(C.int(-dy), C.int(-dx)) != 0 {
		return fmt.Errorf("create scroll event")
	}
	return nil
}

// quartzKeys maps portable key names to ANSI virtual keycodes.
var quartzKeys = map[string]C.CGKeyCode{
	"return": 0x24, "enter": 0x24,
	"tab": 0x30, "space": 0x31, "backspace": 0x33,
	"escape": 0x35, "esc": 0x35, "delete": 0x75,
	"left": 0x7B, "right": 0x7C, "down": 0x7D, "up": 0x7E,
	"home": 0x73, "end": 0x77, "pageup": 0x74, "pagedown": 0x79,
	"shift": 0x38, "ctrl": 0x3B, "control": 0x3B, "alt": 0x3A,
	"cmd": 0x37, "super": 0x37,
	"f1": 0x7A, "f2": 0x78, "f3": 0x63, "f4": 0x76, "f5": 0x60, "f6": 0x61,
	"f7": 0x62, "f8": 0x64, "f9": 0x65, "f10": 0x6D, "f11": 0x67, "f12": 0x6F,
}

func quartzKeycode(key string) (C.CGKeyCode, error) {
	name := strings.ToLower(strings.TrimSpace(key))
	if code, ok := quartzKeys[name]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown key name %q", key)
}

func (*quartzDevice) KeyDown(key string) error {
	code, err := quartzKeycode(key)
	if err != nil {
		return err
	}
	if C.cg_key_event(code, C.bool(true)) != 0 {
		return fmt.Errorf("create key down event for %q", key)
	}
	return nil
}

func (*quartzDevice) KeyUp(key string) error {
	code, err := quartzKeycode(key)
	if err != nil {
		return err
	}
	if C.cg_key_event(code, C.bool(false)) != 0 {
		return fmt.Errorf("create key up event for %q", key)
	}
	return nil
}

// TypeText injects characters as unicode keyboard events, bypassing
// the keyboard layout entirely.
func (*quartzDevice) TypeText(text string) error {
	for _, ev := range utf16KeyEvents(text) {
		if C.cg_unicode_event(C.UniChar(ev.Unit), C.bool(ev.Down)) != 0 {
			return fmt.Errorf("create unicode key event")
		}
		if !ev.Down {
			time.Sleep(5 * time.Millisecond)
		}
	}
	return nil
}
