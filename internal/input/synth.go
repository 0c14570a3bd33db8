package input

import (
	"fmt"
	"time"
)

// dragStep is the interpolation interval during drags, ~50 steps per
// second.
const dragStep = 20 * time.Millisecond

// Timing holds the settle delays around synthesized events.
type Timing struct {
	ClickDelay  time.Duration // pause between move, press, and release
	DragSettle  time.Duration // pause after pressing and before releasing in a drag
	DragRateHz  int           // drag interpolation steps per second, 0 = default
	ScrollDelay time.Duration // pause between wheel clicks
	TypeDelay   time.Duration // pause between typed characters
}

// stepInterval is the drag interpolation interval for the configured
// rate.
func (t Timing) stepInterval() time.Duration {
	if t.DragRateHz > 0 {
		return time.Second / time.Duration(t.DragRateHz)
	}
	return dragStep
}

// DefaultTiming mirrors the settle delays of typical desktop automation.
var DefaultTiming = Timing{
	ClickDelay:  10 * time.Millisecond,
	DragSettle:  50 * time.Millisecond,
	ScrollDelay: 10 * time.Millisecond,
	TypeDelay:   5 * time.Millisecond,
}

// sleep is replaceable in tests so drag interpolation runs instantly.
var sleep = time.Sleep

// Click moves to (x,y), settles, presses, settles, and releases.
func Click(d Device, x, y int, b Button, t Timing) error {
	if err := d.Move(x, y); err != nil {
		return fmt.Errorf("click move: %w", err)
	}
	sleep(t.ClickDelay)
	if err := d.MouseDown(x, y, b); err != nil {
		return fmt.Errorf("click press: %w", err)
	}
	sleep(t.ClickDelay)
	if err := d.MouseUp(x, y, b); err != nil {
		return fmt.Errorf("click release: %w", err)
	}
	return nil
}

// DoubleClick performs two clicks back to back.
func DoubleClick(d Device, x, y int, b Button, t Timing) error {
	if err := Click(d, x, y, b, t); err != nil {
		return err
	}
	sleep(t.ClickDelay)
	return Click(d, x, y, b, t)
}

// Drag presses at the start point, sweeps the pointer to the end point
// over the given duration, and releases. The sweep interpolates
// linearly at ~50 steps per second with a floor of 2 steps; the final
// move always lands exactly on the end point. A non-positive duration
// collapses the sweep to a single jump.
//
// Once a drag starts it runs to completion; callers needing timeouts
// must bound the call before issuing it, not interrupt it.
func Drag(d Device, startX, startY, endX, endY int, b Button, duration time.Duration, t Timing) error {
	if err := d.Move(startX, startY); err != nil {
		return fmt.Errorf("drag move to start: %w", err)
	}
	sleep(t.ClickDelay)
	if err := d.MouseDown(startX, startY, b); err != nil {
		return fmt.Errorf("drag press: %w", err)
	}
	sleep(t.DragSettle)

	// Release even if an interpolation move fails, so the button is
	// never left logically held.
	sweepErr := dragSweep(d, startX, startY, endX, endY, duration, t.stepInterval())

	sleep(t.DragSettle)
	if err := d.MouseUp(endX, endY, b); err != nil {
		if sweepErr != nil {
			return fmt.Errorf("drag sweep: %v; release: %w", sweepErr, err)
		}
		return fmt.Errorf("drag release: %w", err)
	}
	return sweepErr
}

func dragSweep(d Device, startX, startY, endX, endY int, duration, interval time.Duration) error {
	if duration <= 0 {
		if err := d.Move(endX, endY); err != nil {
			return fmt.Errorf("jump to end: %w", err)
		}
		return nil
	}

	steps := int(duration / interval)
	if steps < 2 {
		steps = 2
	}
	stepTime := duration / time.Duration(steps)

	for i := 0; i <= steps; i++ {
		ratio := float64(i) / float64(steps)
		x := startX + int(float64(endX-startX)*ratio)
		y := startY + int(float64(endY-startY)*ratio)
		if i == steps {
			// Integer interpolation can undershoot; land exactly.
			x, y = endX, endY
		}
		if err := d.Move(x, y); err != nil {
			return fmt.Errorf("sweep step %d/%d: %w", i, steps, err)
		}
		if i < steps {
			sleep(stepTime)
		}
	}
	return nil
}

// Scroll dispatches wheel deltas one click at a time with a settle
// delay between clicks.
func Scroll(d Device, dx, dy int, t Timing) error {
	step := func(sx, sy, n int) error {
		for i := 0; i < n; i++ {
			if err := d.Scroll(sx, sy); err != nil {
				return err
			}
			if i < n-1 {
				sleep(t.ScrollDelay)
			}
		}
		return nil
	}

	if dy != 0 {
		sy := 1
		if dy < 0 {
			sy = -1
		}
		if err := step(0, sy, abs(dy)); err != nil {
			return fmt.Errorf("vertical scroll: %w", err)
		}
	}
	if dx != 0 {
		sx := 1
		if dx < 0 {
			sx = -1
		}
		if err := step(sx, 0, abs(dx)); err != nil {
			return fmt.Errorf("horizontal scroll: %w", err)
		}
	}
	return nil
}

// Press sends a key down followed by a key up.
func Press(d Device, key string) error {
	if err := d.KeyDown(key); err != nil {
		return fmt.Errorf("press %q down: %w", key, err)
	}
	if err := d.KeyUp(key); err != nil {
		return fmt.Errorf("press %q up: %w", key, err)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
