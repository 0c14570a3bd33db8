package input

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// recordingDevice captures every emitted event as a string.
type recordingDevice struct {
	events  []string
	moveErr error
}

func (d *recordingDevice) Name() string { return "recording" }

func (d *recordingDevice) Move(x, y int) error {
	if d.moveErr != nil {
		return d.moveErr
	}
	d.events = append(d.events, fmt.Sprintf("move %d,%d", x, y))
	return nil
}

func (d *recordingDevice) MouseDown(x, y int, b Button) error {
	d.events = append(d.events, fmt.Sprintf("down %s %d,%d", b, x, y))
	return nil
}

func (d *recordingDevice) MouseUp(x, y int, b Button) error {
	d.events = append(d.events, fmt.Sprintf("up %s %d,%d", b, x, y))
	return nil
}

func (d *recordingDevice) Scroll(dx, dy int) error {
	d.events = append(d.events, fmt.Sprintf("scroll %d,%d", dx, dy))
	return nil
}

func (d *recordingDevice) KeyDown(key string) error {
	d.events = append(d.events, "keydown "+key)
	return nil
}

func (d *recordingDevice) KeyUp(key string) error {
	d.events = append(d.events, "keyup "+key)
	return nil
}

func (d *recordingDevice) TypeText(text string) error {
	d.events = append(d.events, "type "+text)
	return nil
}

func withoutSleep(t *testing.T) {
	t.Helper()
	prev := sleep
	sleep = func(time.Duration) {}
	t.Cleanup(func() { sleep = prev })
}

func TestClickSequence(t *testing.T) {
	withoutSleep(t)
	d := &recordingDevice{}
	if err := Click(d, 40, 50, ButtonRight, DefaultTiming); err != nil {
		t.Fatalf("Click() = %v, want nil", err)
	}
	want := []string{"move 40,50", "down right 40,50", "up right 40,50"}
	if len(d.events) != len(want) {
		t.Fatalf("got %d events %v, want %v", len(d.events), d.events, want)
	}
	for i := range want {
		if d.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, d.events[i], want[i])
		}
	}
}

func TestDoubleClickSequence(t *testing.T) {
	withoutSleep(t)
	d := &recordingDevice{}
	if err := DoubleClick(d, 1, 2, ButtonLeft, DefaultTiming); err != nil {
		t.Fatalf("DoubleClick() = %v, want nil", err)
	}
	if len(d.events) != 6 {
		t.Fatalf("got %d events, want 6: %v", len(d.events), d.events)
	}
}

func TestDragStepCount(t *testing.T) {
	withoutSleep(t)
	tests := []struct {
		name      string
		duration  time.Duration
		wantMoves int // moves inside the sweep only
	}{
		{"zero duration single jump", 0, 1},
		{"negative duration single jump", -time.Second, 1},
		{"short drag floors at two steps", 10 * time.Millisecond, 3},
		{"200ms drag", 200 * time.Millisecond, 11},
		{"one second drag", time.Second, 51},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDevice{}
			if err := Drag(d, 0, 0, 100, 60, ButtonLeft, tt.duration, DefaultTiming); err != nil {
				t.Fatalf("Drag() = %v, want nil", err)
			}
			// Layout: initial move, press, sweep moves, release.
			sweep := len(d.events) - 3
			if sweep != tt.wantMoves {
				t.Fatalf("sweep produced %d moves, want %d", sweep, tt.wantMoves)
			}
			last := d.events[len(d.events)-2]
			if last != "move 100,60" {
				t.Errorf("final sweep event = %q, want %q", last, "move 100,60")
			}
			if d.events[len(d.events)-1] != "up left 100,60" {
				t.Errorf("release event = %q, want release at end point", d.events[len(d.events)-1])
			}
		})
	}
}

func TestDragCustomRate(t *testing.T) {
	withoutSleep(t)
	d := &recordingDevice{}
	timing := DefaultTiming
	timing.DragRateHz = 10
	// 500ms at 10 steps per second interpolates 5 steps, 6 moves.
	if err := Drag(d, 0, 0, 100, 0, ButtonLeft, 500*time.Millisecond, timing); err != nil {
		t.Fatalf("Drag() = %v, want nil", err)
	}
	sweep := len(d.events) - 3
	if sweep != 6 {
		t.Fatalf("sweep produced %d moves, want 6", sweep)
	}
}

func TestDragReleasesAfterSweepError(t *testing.T) {
	withoutSleep(t)
	moveErr := errors.New("injection refused")
	d := &recordingDevice{}
	// Fail moves only after the press so the sweep trips.
	step := 0
	inner := &hookDevice{Device: d, onMove: func(x, y int) error {
		step++
		if step > 1 {
			return moveErr
		}
		return d.Move(x, y)
	}}
	err := Drag(inner, 0, 0, 50, 50, ButtonLeft, 100*time.Millisecond, DefaultTiming)
	if !errors.Is(err, moveErr) {
		t.Fatalf("Drag() = %v, want wrapped %v", err, moveErr)
	}
	last := d.events[len(d.events)-1]
	if last != "up left 50,50" {
		t.Errorf("last event = %q, want button release despite sweep failure", last)
	}
}

// hookDevice overrides Move and forwards everything else.
type hookDevice struct {
	Device
	onMove func(x, y int) error
}

func (h *hookDevice) Move(x, y int) error { return h.onMove(x, y) }

func TestScrollSplitsIntoClicks(t *testing.T) {
	withoutSleep(t)
	d := &recordingDevice{}
	if err := Scroll(d, -2, 3, DefaultTiming); err != nil {
		t.Fatalf("Scroll() = %v, want nil", err)
	}
	want := []string{"scroll 0,1", "scroll 0,1", "scroll 0,1", "scroll -1,0", "scroll -1,0"}
	if len(d.events) != len(want) {
		t.Fatalf("got %d events %v, want %v", len(d.events), d.events, want)
	}
	for i := range want {
		if d.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, d.events[i], want[i])
		}
	}
}

func TestPressOrder(t *testing.T) {
	d := &recordingDevice{}
	if err := Press(d, "Return"); err != nil {
		t.Fatalf("Press() = %v, want nil", err)
	}
	if len(d.events) != 2 || d.events[0] != "keydown Return" || d.events[1] != "keyup Return" {
		t.Fatalf("events = %v, want key down then key up", d.events)
	}
}

func TestParseButton(t *testing.T) {
	tests := []struct {
		in      string
		want    Button
		wantErr bool
	}{
		{"left", ButtonLeft, false},
		{"", ButtonLeft, false},
		{"Right", ButtonRight, false},
		{" middle ", ButtonMiddle, false},
		{"fourth", ButtonLeft, true},
	}
	for _, tt := range tests {
		got, err := ParseButton(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseButton(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseButton(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFallsBackToNoop(t *testing.T) {
	prev := NewDeviceFunc
	t.Cleanup(func() { NewDeviceFunc = prev })

	NewDeviceFunc = nil
	if got := New().Name(); got != "noop" {
		t.Fatalf("New().Name() with no backend = %q, want %q", got, "noop")
	}

	NewDeviceFunc = func() (Device, error) { return nil, errors.New("no display") }
	if got := New().Name(); got != "noop" {
		t.Fatalf("New().Name() with failing backend = %q, want %q", got, "noop")
	}
}
