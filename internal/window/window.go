package window

import (
	"fmt"
	"time"

	"github.com/deskctl/deskctl/internal/geom"
)

const (
	// activateRetries is the number of re-attempts after the first
	// activation call fails to verify.
	activateRetries = 2
	// activateDelay is the pause between activation attempts.
	activateDelay = 100 * time.Millisecond
	// closeSettle is how long Close waits before checking that the
	// window actually went away.
	closeSettle = 200 * time.Millisecond
)

// UntitledTitle substitutes for windows whose backend title is empty.
const UntitledTitle = "Untitled Window"

// Window wraps one native window. It does not own the OS window: the
// handle can die at any moment, so every accessor re-checks liveness
// instead of trusting cached state.
type Window struct {
	native  NativeWindow
	backend Backend
}

// wrap validates that the native window is alive before handing out a
// Window for it.
func wrap(n NativeWindow, b Backend) (*Window, error) {
	w := &Window{native: n, backend: b}
	if !n.IsAlive() {
		return nil, fmt.Errorf("%w: handle %d is no longer valid", ErrNotFound, n.ID())
	}
	return w, nil
}

// Title returns the window title, UntitledTitle when the backend
// reports an empty one.
func (w *Window) Title() string {
	if !w.native.IsAlive() {
		return "Window Not Alive"
	}
	if t := w.native.Title(); t != "" {
		return t
	}
	return UntitledTitle
}

// ID returns the native window id.
func (w *Window) ID() uint64 { return w.native.ID() }

// BackendName names the backend that produced this handle.
func (w *Window) BackendName() string { return w.backend.Name() }

// IsAlive reports whether the underlying OS window still exists.
func (w *Window) IsAlive() bool { return w.native.IsAlive() }

// IsVisible reports whether the window is visible (not minimized or
// hidden). A dead window is not visible.
func (w *Window) IsVisible() bool {
	return w.native.IsAlive() && w.native.IsVisible()
}

// IsActive reports whether the window is the foreground window.
func (w *Window) IsActive() bool {
	return w.native.IsAlive() && w.native.IsActive()
}

// BBox returns the window's screen-space bounding box. A minimized or
// zero-size window is an error, never a degenerate rectangle.
func (w *Window) BBox() (geom.BBox, error) {
	if !w.native.IsAlive() {
		return geom.BBox{}, fmt.Errorf("%w: window %d is not alive", ErrOperationFailed, w.ID())
	}
	box, err := w.native.Geometry()
	if err != nil {
		return geom.BBox{}, fmt.Errorf("%w: geometry of %q: %v", ErrOperationFailed, w.Title(), err)
	}
	if box.Width <= 0 || box.Height <= 0 {
		return geom.BBox{}, fmt.Errorf("%w: window %q has degenerate bounds %s (minimized?)", ErrOperationFailed, w.Title(), box)
	}
	return box, nil
}

// Activate brings the window to the foreground and verifies it via
// IsActive with a fixed retry/backoff. Backends that cannot verify
// activation count a non-erroring call as success.
func (w *Window) Activate() error {
	if !w.native.IsAlive() {
		return fmt.Errorf("%w: cannot activate dead window %d", ErrOperationFailed, w.ID())
	}

	var lastErr error
	for attempt := 0; attempt <= activateRetries; attempt++ {
		if err := w.native.Activate(); err != nil {
			lastErr = err
			log.Warn("activation attempt failed", "window", w.Title(), "attempt", attempt+1, "err", err)
		} else {
			if !w.backend.CanVerifyActive() {
				return nil
			}
			time.Sleep(activateDelay / 2)
			if w.native.IsActive() {
				log.Debug("window activated", "window", w.Title(), "attempt", attempt+1)
				return nil
			}
		}
		if attempt < activateRetries {
			time.Sleep(activateDelay)
		}
	}

	if lastErr != nil {
		return fmt.Errorf("%w: activate %q after %d attempts: %v", ErrOperationFailed, w.Title(), activateRetries+1, lastErr)
	}
	return fmt.Errorf("%w: window %q never became active after %d attempts", ErrOperationFailed, w.Title(), activateRetries+1)
}

// Close asks the backend to close the window and verifies, best
// effort, that it went away. A window that is slow to tear down is
// logged, not an error.
func (w *Window) Close() error {
	if !w.backend.CanClose() {
		return fmt.Errorf("%w: close via %s", ErrNotSupported, w.backend.Name())
	}
	if !w.native.IsAlive() {
		log.Debug("close skipped, window already gone", "id", w.ID())
		return nil
	}
	title := w.Title()
	if err := w.native.Close(); err != nil {
		return fmt.Errorf("%w: close %q: %v", ErrOperationFailed, title, err)
	}
	time.Sleep(closeSettle)
	if w.native.IsAlive() {
		log.Warn("window still alive after close request", "window", title)
	}
	return nil
}

func (w *Window) String() string {
	box, err := w.BBox()
	bboxStr := "n/a"
	if err == nil {
		bboxStr = box.String()
	}
	return fmt.Sprintf("Window(title=%q, id=%d, bbox=%s, backend=%s, alive=%v)",
		w.Title(), w.ID(), bboxStr, w.BackendName(), w.IsAlive())
}
