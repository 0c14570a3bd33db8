//go:build linux

package window

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/deskctl/deskctl/internal/geom"
)

func init() {
	NewBackendFunc = newX11Backend
}

// x11Backend talks EWMH to the window manager over one shared X
// connection.
type x11Backend struct {
	xu *xgbutil.XUtil
}

func newX11Backend() (Backend, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: connect to X server: %v", ErrBackendNotAvailable, err)
	}
	return &x11Backend{xu: xu}, nil
}

func (b *x11Backend) Name() string          { return "x11" }
func (b *x11Backend) CanClose() bool        { return true }
func (b *x11Backend) CanVerifyActive() bool { return true }

// List returns the window manager's client list in stacking order.
func (b *x11Backend) List() ([]NativeWindow, error) {
	clients, err := ewmh.ClientListGet(b.xu)
	if err != nil {
		return nil, fmt.Errorf("_NET_CLIENT_LIST: %w", err)
	}
	windows := make([]NativeWindow, 0, len(clients))
	for _, id := range clients {
		windows = append(windows, &x11Window{xu: b.xu, id: id})
	}
	return windows, nil
}

// x11Window reads everything fresh from the server on each call; X ids
// are recycled, so cached state would lie.
type x11Window struct {
	xu *xgbutil.XUtil
	id xproto.Window
}

func (w *x11Window) ID() uint64 { return uint64(w.id) }

func (w *x11Window) Title() string {
	if name, err := ewmh.WmNameGet(w.xu, w.id); err == nil && name != "" {
		return name
	}
	// Older clients only set the ICCCM name.
	if name, err := icccm.WmNameGet(w.xu, w.id); err == nil {
		return name
	}
	return ""
}

func (w *x11Window) Geometry() (geom.BBox, error) {
	rect, err := xwindow.New(w.xu, w.id).DecorGeometry()
	if err != nil {
		return geom.BBox{}, err
	}
	return geom.New(rect.X(), rect.Y(), rect.Width(), rect.Height()), nil
}

func (w *x11Window) IsAlive() bool {
	_, err := xproto.GetWindowAttributes(w.xu.Conn(), w.id).Reply()
	return err == nil
}

func (w *x11Window) IsVisible() bool {
	attrs, err := xproto.GetWindowAttributes(w.xu.Conn(), w.id).Reply()
	if err != nil || attrs.MapState != xproto.MapStateViewable {
		return false
	}
	// Minimized windows stay mapped but carry _NET_WM_STATE_HIDDEN.
	states, err := ewmh.WmStateGet(w.xu, w.id)
	if err != nil {
		return true
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return false
		}
	}
	return true
}

func (w *x11Window) IsActive() bool {
	active, err := ewmh.ActiveWindowGet(w.xu)
	return err == nil && active == w.id
}

func (w *x11Window) Activate() error {
	return ewmh.ActiveWindowReq(w.xu, w.id)
}

func (w *x11Window) Close() error {
	return ewmh.CloseWindow(w.xu, w.id)
}
