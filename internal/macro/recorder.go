package macro

import (
	"context"
	"fmt"
	"time"
)

// RawEvent is an input observation without a timestamp. The recorder
// stamps it on receipt, relative to the start of the recording.
type RawEvent struct {
	Type    string
	X, Y    int
	Button  string
	DX, DY  int
	Key     string
	Pressed bool
}

// Source streams raw input observations. Events delivers observations
// until ctx is cancelled; the source closes the channel when it stops.
type Source interface {
	Events(ctx context.Context) (<-chan RawEvent, error)
}

// NewSourceFunc is set by the platform-specific file's init(). It
// stays nil where no recording mechanism exists.
var NewSourceFunc func() (Source, error)

// NewSource returns the platform event source.
func NewSource() (Source, error) {
	if NewSourceFunc == nil {
		return nil, fmt.Errorf("input recording is not supported on this platform")
	}
	return NewSourceFunc()
}

// Record consumes the source until ctx is cancelled and returns the
// captured script. Timestamps are seconds since Record was called.
func Record(ctx context.Context, src Source) (*Script, error) {
	ch, err := src.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("start recording: %w", err)
	}

	start := time.Now()
	script := &Script{}
	for raw := range ch {
		script.Events = append(script.Events, Event{
			Type:    raw.Type,
			T:       time.Since(start).Seconds(),
			X:       raw.X,
			Y:       raw.Y,
			Button:  raw.Button,
			DX:      raw.DX,
			DY:      raw.DY,
			Key:     raw.Key,
			Pressed: raw.Pressed,
		})
	}
	log.Info("recording stopped", "events", len(script.Events))
	return script, nil
}
