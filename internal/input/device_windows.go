//go:build windows

package input

import (
	"fmt"
	"strings"
	"syscall"
	"time"
	"unsafe"
)

func init() {
	NewDeviceFunc = newWin32Device
}

const (
	inputMouse    = 0
	inputKeyboard = 1

	mouseeventfMove        = 0x0001
	mouseeventfLeftDown    = 0x0002
	mouseeventfLeftUp      = 0x0004
	mouseeventfRightDown   = 0x0008
	mouseeventfRightUp     = 0x0010
	mouseeventfMiddleDown  = 0x0020
	mouseeventfMiddleUp    = 0x0040
	mouseeventfWheel       = 0x0800
	mouseeventfHWheel      = 0x1000
	mouseeventfAbsolute    = 0x8000
	mouseeventfVirtualDesk = 0x4000

	keyeventfKeyUp   = 0x0002
	keyeventfUnicode = 0x0004

	wheelDelta = 120

	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCxVirtualScreen = 78
	smCyVirtualScreen = 79
)

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	procSendInput    = user32.NewProc("SendInput")
	procGetSystemMet = user32.NewProc("GetSystemMetrics")
)

type mouseInput struct {
	Dx        int32
	Dy        int32
	MouseData uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

type keyboardInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
	_         [8]byte // pad the union to MOUSEINPUT's size
}

type mouseInputEvent struct {
	Type uint32
	_    uint32 // union alignment on 64-bit
	Mi   mouseInput
}

type keyboardInputEvent struct {
	Type uint32
	_    uint32
	Ki   keyboardInput
}

// win32Device synthesizes events with SendInput against the virtual
// desktop, so multi-monitor coordinates (including negative origins)
// work unchanged.
type win32Device struct{}

func newWin32Device() (Device, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("%w: load user32: %v", ErrPrerequisites, err)
	}
	return &win32Device{}, nil
}

func (*win32Device) Name() string { return "win32" }

func metric(index int) int {
	v, _, _ := procGetSystemMet.Call(uintptr(index))
	return int(int32(v))
}

// normalize maps screen pixels to SendInput's 0..65535 virtual-desktop
// space.
func normalize(x, y int) (int32, int32) {
	left := metric(smXVirtualScreen)
	top := metric(smYVirtualScreen)
	width := metric(smCxVirtualScreen)
	height := metric(smCyVirtualScreen)
	if width <= 1 || height <= 1 {
		return int32(x), int32(y)
	}
	nx := (x - left) * 65535 / (width - 1)
	ny := (y - top) * 65535 / (height - 1)
	return int32(nx), int32(ny)
}

func sendMouse(flags uint32, x, y int32, data uint32) error {
	ev := mouseInputEvent{Type: inputMouse, Mi: mouseInput{Dx: x, Dy: y, MouseData: data, Flags: flags}}
	n, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(&ev)), unsafe.Sizeof(ev))
	if n == 0 {
		return fmt.Errorf("SendInput(mouse): %v", err)
	}
	return nil
}

func sendKey(vk, scan uint16, flags uint32) error {
	ev := keyboardInputEvent{Type: inputKeyboard, Ki: keyboardInput{Vk: vk, Scan: scan, Flags: flags}}
	n, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(&ev)), unsafe.Sizeof(ev))
	if n == 0 {
		return fmt.Errorf("SendInput(keyboard): %v", err)
	}
	return nil
}

func (*win32Device) Move(x, y int) error {
	nx, ny := normalize(x, y)
	return sendMouse(mouseeventfMove|mouseeventfAbsolute|mouseeventfVirtualDesk, nx, ny, 0)
}

var win32ButtonDown = map[Button]uint32{
	ButtonLeft:   mouseeventfLeftDown,
	ButtonRight:  mouseeventfRightDown,
	ButtonMiddle: mouseeventfMiddleDown,
}

var win32ButtonUp = map[Button]uint32{
	ButtonLeft:   mouseeventfLeftUp,
	ButtonRight:  mouseeventfRightUp,
	ButtonMiddle: mouseeventfMiddleUp,
}

func (d *win32Device) MouseDown(x, y int, b Button) error {
	if err := d.Move(x, y); err != nil {
		return err
	}
	return sendMouse(win32ButtonDown[b], 0, 0, 0)
}

func (d *win32Device) MouseUp(x, y int, b Button) error {
	if err := d.Move(x, y); err != nil {
		return err
	}
	return sendMouse(win32ButtonUp[b], 0, 0, 0)
}

// Scroll converts the toolkit sign convention (positive dy = toward
// the user = down) to the Windows one (positive wheel data = away from
// the user = up) by inverting dy.
func (*win32Device) Scroll(dx, dy int) error {
	if dy != 0 {
		if err := sendMouse(mouseeventfWheel, 0, 0, uint32(int32(dy*-wheelDelta))); err != nil {
			return err
		}
	}
	if dx != 0 {
		return sendMouse(mouseeventfHWheel, 0, 0, uint32(int32(dx*wheelDelta)))
	}
	return nil
}

// win32Keys maps portable key names to virtual-key codes.
var win32Keys = map[string]uint16{
	"return": 0x0D, "enter": 0x0D,
	"tab": 0x09, "escape": 0x1B, "esc": 0x1B,
	"space": 0x20, "backspace": 0x08, "delete": 0x2E,
	"up": 0x26, "down": 0x28, "left": 0x25, "right": 0x27,
	"home": 0x24, "end": 0x23, "pageup": 0x21, "pagedown": 0x22,
	"shift": 0x10, "ctrl": 0x11, "control": 0x11, "alt": 0x12,
	"super": 0x5B, "win": 0x5B,
	"f1": 0x70, "f2": 0x71, "f3": 0x72, "f4": 0x73, "f5": 0x74, "f6": 0x75,
	"f7": 0x76, "f8": 0x77, "f9": 0x78, "f10": 0x79, "f11": 0x7A, "f12": 0x7B,
}

func vkFor(key string) (uint16, error) {
	name := strings.ToLower(strings.TrimSpace(key))
	if vk, ok := win32Keys[name]; ok {
		return vk, nil
	}
	if len(name) == 1 {
		c := name[0]
		if c >= 'a' && c <= 'z' {
			return uint16(c - 'a' + 0x41), nil
		}
		if c >= '0' && c <= '9' {
			return uint16(c), nil
		}
	}
	return 0, fmt.Errorf("unknown key name %q", key)
}

func (*win32Device) KeyDown(key string) error {
	vk, err := vkFor(key)
	if err != nil {
		return err
	}
	return sendKey(vk, 0, 0)
}

func (*win32Device) KeyUp(key string) error {
	vk, err := vkFor(key)
	if err != nil {
		return err
	}
	return sendKey(vk, 0, keyeventfKeyUp)
}

// TypeText sends every character as KEYEVENTF_UNICODE scan-code
// events. Astral characters expand to their UTF-16 surrogate pairs,
// four events each.
func (*win32Device) TypeText(text string) error {
	for _, ev := range utf16KeyEvents(text) {
		flags := uint32(keyeventfUnicode)
		if !ev.Down {
			flags |= keyeventfKeyUp
		}
		if err := sendKey(0, ev.Unit, flags); err != nil {
			return err
		}
		if !ev.Down {
			time.Sleep(5 * time.Millisecond)
		}
	}
	return nil
}
