//go:build windows

package window

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/deskctl/deskctl/internal/geom"
)

func init() {
	NewBackendFunc = newWin32Backend
}

const (
	wmClose     = 0x0010
	swRestore   = 9
	maxTitleLen = 512
)

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindow                 = user32.NewProc("IsWindow")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsIconic                 = user32.NewProc("IsIconic")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procShowWindow               = user32.NewProc("ShowWindow")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procAttachThreadInput        = user32.NewProc("AttachThreadInput")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetCurrentThreadId       = kernel32.NewProc("GetCurrentThreadId")
)

type rect struct {
	Left, Top, Right, Bottom int32
}

// win32Backend enumerates top-level windows through user32.
type win32Backend struct{}

func newWin32Backend() (Backend, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("%w: load user32: %v", ErrBackendNotAvailable, err)
	}
	return &win32Backend{}, nil
}

func (b *win32Backend) Name() string          { return "win32" }
func (b *win32Backend) CanClose() bool        { return true }
func (b *win32Backend) CanVerifyActive() bool { return true }

func (b *win32Backend) List() ([]NativeWindow, error) {
	var windows []NativeWindow
	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		windows = append(windows, &win32Window{hwnd: hwnd})
		return 1 // continue enumeration
	})
	ret, _, err := procEnumWindows.Call(cb, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumWindows: %v", err)
	}
	return windows, nil
}

type win32Window struct {
	hwnd uintptr
}

func (w *win32Window) ID() uint64 { return uint64(w.hwnd) }

func (w *win32Window) Title() string {
	buf := make([]uint16, maxTitleLen)
	n, _, _ := procGetWindowTextW.Call(w.hwnd, uintptr(unsafe.Pointer(&buf[0])), maxTitleLen)
	if n == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:n])
}

func (w *win32Window) Geometry() (geom.BBox, error) {
	var r rect
	ret, _, err := procGetWindowRect.Call(w.hwnd, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return geom.BBox{}, fmt.Errorf("GetWindowRect: %v", err)
	}
	return geom.New(int(r.Left), int(r.Top), int(r.Right-r.Left), int(r.Bottom-r.Top)), nil
}

func (w *win32Window) IsAlive() bool {
	ret, _, _ := procIsWindow.Call(w.hwnd)
	return ret != 0
}

func (w *win32Window) IsVisible() bool {
	visible, _, _ := procIsWindowVisible.Call(w.hwnd)
	if visible == 0 {
		return false
	}
	iconic, _, _ := procIsIconic.Call(w.hwnd)
	return iconic == 0
}

func (w *win32Window) IsActive() bool {
	fg, _, _ := procGetForegroundWindow.Call()
	return fg == w.hwnd
}

// Activate restores the window and forces it to the foreground.
// Windows refuses SetForegroundWindow from background processes unless
// the calling thread is attached to the foreground thread's input
// queue first.
func (w *win32Window) Activate() error {
	iconic, _, _ := procIsIconic.Call(w.hwnd)
	if iconic != 0 {
		procShowWindow.Call(w.hwnd, swRestore)
	}

	fg, _, _ := procGetForegroundWindow.Call()
	if fg != 0 && fg != w.hwnd {
		fgThread, _, _ := procGetWindowThreadProcessId.Call(fg, 0)
		curThread, _, _ := procGetCurrentThreadId.Call()
		if fgThread != curThread {
			procAttachThreadInput.Call(curThread, fgThread, 1)
			defer procAttachThreadInput.Call(curThread, fgThread, 0)
		}
	}

	ret, _, err := procSetForegroundWindow.Call(w.hwnd)
	if ret == 0 {
		return fmt.Errorf("SetForegroundWindow: %v", err)
	}
	return nil
}

func (w *win32Window) Close() error {
	ret, _, err := procPostMessageW.Call(w.hwnd, wmClose, 0, 0)
	if ret == 0 {
		return fmt.Errorf("PostMessage(WM_CLOSE): %v", err)
	}
	return nil
}
