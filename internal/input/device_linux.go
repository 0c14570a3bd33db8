//go:build linux

package input

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

func init() {
	NewDeviceFunc = newLinuxDevice
}

// newLinuxDevice picks the injection mechanism for the current
// session. Under X11 the xdotool CLI is preferred with an XTEST
// fallback; under Wayland only XTEST (through XWayland) is attempted
// and a capability warning is surfaced once, because compositors may
// refuse cross-application injection.
func newLinuxDevice() (Device, error) {
	session := detectSession()
	log.Debug("detected desktop session", "type", session)

	switch session {
	case "x11":
		if path, err := findXdotool(); err == nil {
			fallback, fbErr := newXTestDevice()
			if fbErr != nil {
				log.Warn("XTEST fallback unavailable, xdotool only", "err", fbErr)
			}
			return &xdotoolDevice{path: path, fallback: fallback}, nil
		} else {
			log.Warn("xdotool not usable, falling back to XTEST", "err", err)
		}
		return newXTestDevice()
	case "wayland":
		log.Warn("wayland session: input injection may be restricted by the compositor")
		return newXTestDevice()
	default:
		return nil, fmt.Errorf("%w: cannot determine display session", ErrPrerequisites)
	}
}

func detectSession() string {
	if s := os.Getenv("XDG_SESSION_TYPE"); s == "x11" || s == "wayland" {
		return s
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return "wayland"
	}
	if os.Getenv("DISPLAY") != "" {
		return "x11"
	}
	return "unknown"
}

// findXdotool locates the xdotool binary and verifies it responds.
func findXdotool() (string, error) {
	path, err := exec.LookPath("xdotool")
	if err != nil {
		return "", fmt.Errorf("xdotool not in PATH: %w", err)
	}
	cmd := exec.Command(path, "--version")
	if err := runWithTimeout(cmd, time.Second); err != nil {
		return "", fmt.Errorf("xdotool version check: %w", err)
	}
	return path, nil
}

func runWithTimeout(cmd *exec.Cmd, d time.Duration) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(d):
		cmd.Process.Kill()
		<-done
		return fmt.Errorf("timed out after %s", d)
	}
}

// xdotoolButtons maps Button to xdotool's numeric button names.
var xdotoolButtons = map[Button]string{
	ButtonLeft:   "1",
	ButtonMiddle: "2",
	ButtonRight:  "3",
}

// xdotoolDevice shells out to xdotool for each event. A failing call
// is retried once on the XTEST fallback; if that also fails, the error
// surfaces.
type xdotoolDevice struct {
	path     string
	fallback Device
}

func (d *xdotoolDevice) Name() string { return "xdotool" }

func (d *xdotoolDevice) run(args ...string) error {
	out, err := exec.Command(d.path, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("xdotool %s: %v (%s)", args[0], err, string(out))
	}
	return nil
}

// withFallback runs the xdotool form and, if it fails, tries the same
// event once on the library device.
func (d *xdotoolDevice) withFallback(primary error, retry func(Device) error) error {
	if primary == nil {
		return nil
	}
	if d.fallback == nil {
		return primary
	}
	log.Warn("xdotool call failed, retrying via XTEST", "err", primary)
	if err := retry(d.fallback); err != nil {
		return fmt.Errorf("xdotool failed (%v) and XTEST fallback failed: %w", primary, err)
	}
	return nil
}

func (d *xdotoolDevice) Move(x, y int) error {
	err := d.run("mousemove", strconv.Itoa(x), strconv.Itoa(y))
	return d.withFallback(err, func(fb Device) error { return fb.Move(x, y) })
}

func (d *xdotoolDevice) MouseDown(x, y int, b Button) error {
	err := d.run("mousemove", strconv.Itoa(x), strconv.Itoa(y))
	if err == nil {
		err = d.run("mousedown", xdotoolButtons[b])
	}
	return d.withFallback(err, func(fb Device) error { return fb.MouseDown(x, y, b) })
}

func (d *xdotoolDevice) MouseUp(x, y int, b Button) error {
	err := d.run("mousemove", strconv.Itoa(x), strconv.Itoa(y))
	if err == nil {
		err = d.run("mouseup", xdotoolButtons[b])
	}
	return d.withFallback(err, func(fb Device) error { return fb.MouseUp(x, y, b) })
}

func (d *xdotoolDevice) Scroll(dx, dy int) error {
	err := d.scrollOnce(dx, dy)
	return d.withFallback(err, func(fb Device) error { return fb.Scroll(dx, dy) })
}

// X11 wheel buttons: 4 up, 5 down, 6 left, 7 right.
func (d *xdotoolDevice) scrollOnce(dx, dy int) error {
	if dy > 0 {
		if err := d.run("click", "--repeat", strconv.Itoa(dy), "5"); err != nil {
			return err
		}
	} else if dy < 0 {
		if err := d.run("click", "--repeat", strconv.Itoa(-dy), "4"); err != nil {
			return err
		}
	}
	if dx > 0 {
		return d.run("click", "--repeat", strconv.Itoa(dx), "7")
	} else if dx < 0 {
		return d.run("click", "--repeat", strconv.Itoa(-dx), "6")
	}
	return nil
}

func (d *xdotoolDevice) KeyDown(key string) error {
	err := d.run("keydown", key)
	return d.withFallback(err, func(fb Device) error { return fb.KeyDown(key) })
}

func (d *xdotoolDevice) KeyUp(key string) error {
	err := d.run("keyup", key)
	return d.withFallback(err, func(fb Device) error { return fb.KeyUp(key) })
}

func (d *xdotoolDevice) TypeText(text string) error {
	err := d.run("type", "--delay", "5", "--", text)
	return d.withFallback(err, func(fb Device) error { return fb.TypeText(text) })
}

// xtestDevice injects events with the XTEST extension over a direct X
// connection.
type xtestDevice struct {
	xu   *xgbutil.XUtil
	root xproto.Window
}

func newXTestDevice() (Device, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: connect to X server: %v", ErrPrerequisites, err)
	}
	if err := xtest.Init(xu.Conn()); err != nil {
		return nil, fmt.Errorf("%w: XTEST extension: %v", ErrPrerequisites, err)
	}
	keybind.Initialize(xu)
	return &xtestDevice{xu: xu, root: xu.RootWin()}, nil
}

func (d *xtestDevice) Name() string { return "xtest" }

func (d *xtestDevice) fake(eventType byte, detail byte, x, y int16) error {
	return xtest.FakeInputChecked(d.xu.Conn(), eventType, detail, 0, d.root, x, y, 0).Check()
}

func (d *xtestDevice) Move(x, y int) error {
	// detail 0 = absolute motion
	return d.fake(xproto.MotionNotify, 0, int16(x), int16(y))
}

var xtestButtons = map[Button]byte{
	ButtonLeft:   1,
	ButtonMiddle: 2,
	ButtonRight:  3,
}

func (d *xtestDevice) MouseDown(x, y int, b Button) error {
	if err := d.Move(x, y); err != nil {
		return err
	}
	return d.fake(xproto.ButtonPress, xtestButtons[b], 0, 0)
}

func (d *xtestDevice) MouseUp(x, y int, b Button) error {
	if err := d.Move(x, y); err != nil {
		return err
	}
	return d.fake(xproto.ButtonRelease, xtestButtons[b], 0, 0)
}

func (d *xtestDevice) Scroll(dx, dy int) error {
	wheel := func(button byte, clicks int) error {
		for i := 0; i < clicks; i++ {
			if err := d.fake(xproto.ButtonPress, button, 0, 0); err != nil {
				return err
			}
			if err := d.fake(xproto.ButtonRelease, button, 0, 0); err != nil {
				return err
			}
		}
		return nil
	}

	if dy > 0 {
		if err := wheel(5, dy); err != nil {
			return err
		}
	} else if dy < 0 {
		if err := wheel(4, -dy); err != nil {
			return err
		}
	}
	if dx > 0 {
		return wheel(7, dx)
	} else if dx < 0 {
		return wheel(6, -dx)
	}
	return nil
}

func (d *xtestDevice) keycode(key string) (xproto.Keycode, error) {
	codes := keybind.StrToKeycodes(d.xu, key)
	if len(codes) == 0 || codes[0] == 0 {
		return 0, fmt.Errorf("no keycode for %q", key)
	}
	return codes[0], nil
}

func (d *xtestDevice) KeyDown(key string) error {
	code, err := d.keycode(key)
	if err != nil {
		return err
	}
	return d.fake(xproto.KeyPress, byte(code), 0, 0)
}

func (d *xtestDevice) KeyUp(key string) error {
	code, err := d.keycode(key)
	if err != nil {
		return err
	}
	return d.fake(xproto.KeyRelease, byte(code), 0, 0)
}

// TypeText presses the keycode for each character. Characters with no
// keycode in the current layout are logged and skipped; XTEST cannot
// fabricate keysyms that the keymap lacks.
func (d *xtestDevice) TypeText(text string) error {
	for _, r := range text {
		key := string(r)
		code, err := d.keycode(key)
		if err != nil {
			log.Warn("cannot type character, no keycode in layout", "char", key)
			continue
		}
		if err := d.fake(xproto.KeyPress, byte(code), 0, 0); err != nil {
			return err
		}
		if err := d.fake(xproto.KeyRelease, byte(code), 0, 0); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}
