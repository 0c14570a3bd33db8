package macro

import (
	"context"
	"fmt"
	"time"

	"github.com/deskctl/deskctl/internal/input"
)

// sleepUntil waits for the target offset from start, honoring ctx.
// Replaceable in tests so playback runs instantly.
var sleepUntil = func(ctx context.Context, start time.Time, offset time.Duration) error {
	remaining := offset - time.Since(start)
	if remaining <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Play replays the script through d, pacing events by their recorded
// timestamps. speed scales playback: 2.0 runs twice as fast, 0.5 at
// half speed. Non-positive speed plays at recorded speed.
func Play(ctx context.Context, d input.Device, s *Script, speed float64) error {
	if speed <= 0 {
		speed = 1.0
	}
	s.Sort()

	start := time.Now()
	for i, ev := range s.Events {
		offset := time.Duration(ev.T / speed * float64(time.Second))
		if err := sleepUntil(ctx, start, offset); err != nil {
			return fmt.Errorf("playback interrupted at event %d: %w", i, err)
		}
		if err := dispatch(d, ev); err != nil {
			return fmt.Errorf("event %d (%s at t=%.3fs): %w", i, ev.Type, ev.T, err)
		}
	}
	log.Info("playback finished", "events", len(s.Events), "speed", speed)
	return nil
}

func dispatch(d input.Device, ev Event) error {
	switch ev.Type {
	case EventMove:
		return d.Move(ev.X, ev.Y)
	case EventClick:
		btn, err := input.ParseButton(ev.Button)
		if err != nil {
			return err
		}
		if ev.Pressed {
			return d.MouseDown(ev.X, ev.Y, btn)
		}
		return d.MouseUp(ev.X, ev.Y, btn)
	case EventScroll:
		return d.Scroll(ev.DX, ev.DY)
	case EventKey:
		if ev.Pressed {
			return d.KeyDown(ev.Key)
		}
		return d.KeyUp(ev.Key)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
}
