//go:build linux

package macro

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

func init() {
	NewSourceFunc = newX11Source
}

// pollInterval bounds recording resolution; 60 samples per second is
// enough to reproduce human input.
const pollInterval = time.Second / 60

// x11Source samples the pointer and keymap state over the X
// connection. Polling avoids grabbing devices, so the recorded session
// behaves normally while being observed.
type x11Source struct {
	xu *xgbutil.XUtil
}

func newX11Source() (Source, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	keybind.Initialize(xu)
	return &x11Source{xu: xu}, nil
}

var pollButtons = []struct {
	mask uint16
	name string
}{
	{xproto.ButtonMask1, "left"},
	{xproto.ButtonMask2, "middle"},
	{xproto.ButtonMask3, "right"},
}

func (s *x11Source) Events(ctx context.Context) (<-chan RawEvent, error) {
	root := s.xu.RootWin()
	ch := make(chan RawEvent, 256)

	go func() {
		defer close(ch)

		var (
			haveState  bool
			lastX      int
			lastY      int
			lastMask   uint16
			lastKeymap [32]byte
		)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		emit := func(ev RawEvent) {
			select {
			case ch <- ev:
			default:
				log.Warn("recording buffer full, dropping event", "type", ev.Type)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			ptr, err := xproto.QueryPointer(s.xu.Conn(), root).Reply()
			if err != nil {
				log.Warn("pointer query failed, stopping recording", "err", err)
				return
			}
			keys, err := xproto.QueryKeymap(s.xu.Conn()).Reply()
			if err != nil {
				log.Warn("keymap query failed, stopping recording", "err", err)
				return
			}

			x, y := int(ptr.RootX), int(ptr.RootY)
			mask := uint16(ptr.Mask)
			var keymap [32]byte
			copy(keymap[:], keys.Keys)

			if !haveState {
				haveState = true
				lastX, lastY, lastMask, lastKeymap = x, y, mask, keymap
				continue
			}

			if x != lastX || y != lastY {
				emit(RawEvent{Type: EventMove, X: x, Y: y})
			}
			for _, b := range pollButtons {
				was := lastMask&b.mask != 0
				is := mask&b.mask != 0
				if was != is {
					emit(RawEvent{Type: EventClick, X: x, Y: y, Button: b.name, Pressed: is})
				}
			}
			for i := range keymap {
				diff := keymap[i] ^ lastKeymap[i]
				if diff == 0 {
					continue
				}
				for bit := 0; bit < 8; bit++ {
					if diff&(1<<bit) == 0 {
						continue
					}
					code := xproto.Keycode(i*8 + bit)
					name := keybind.KeysymToStr(keybind.KeysymGet(s.xu, code, 0))
					if name == "" {
						continue
					}
					emit(RawEvent{Type: EventKey, Key: name, Pressed: keymap[i]&(1<<bit) != 0})
				}
			}

			lastX, lastY, lastMask, lastKeymap = x, y, mask, keymap
		}
	}()

	return ch, nil
}
