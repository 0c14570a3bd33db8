// Package macro records desktop input into replayable event scripts
// and plays them back through an input device.
package macro

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/deskctl/deskctl/internal/logging"
)

var log = logging.New("macro")

// Event types.
const (
	EventMove   = "move"
	EventClick  = "click"
	EventScroll = "scroll"
	EventKey    = "key"
)

// Event is one recorded input action. T is seconds since the start of
// the recording. Which of the remaining fields are meaningful depends
// on Type.
type Event struct {
	Type    string  `json:"type"`
	T       float64 `json:"t"`
	X       int     `json:"x,omitempty"`
	Y       int     `json:"y,omitempty"`
	Button  string  `json:"button,omitempty"`
	DX      int     `json:"dx,omitempty"`
	DY      int     `json:"dy,omitempty"`
	Key     string  `json:"key,omitempty"`
	Pressed bool    `json:"pressed"`
}

// Script is a recorded macro.
type Script struct {
	Events []Event `json:"events"`
}

// Sort orders events by timestamp, keeping the recorded order for
// ties. Hand-edited scripts are often out of order; playback assumes
// ascending time.
func (s *Script) Sort() {
	sort.SliceStable(s.Events, func(i, j int) bool {
		return s.Events[i].T < s.Events[j].T
	})
}

// Duration is the timestamp of the last event after sorting, in
// seconds.
func (s *Script) Duration() float64 {
	if len(s.Events) == 0 {
		return 0
	}
	max := s.Events[0].T
	for _, ev := range s.Events[1:] {
		if ev.T > max {
			max = ev.T
		}
	}
	return max
}

// Load reads a macro script from a JSON file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read macro %s: %w", path, err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse macro %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the script as indented JSON.
func (s *Script) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode macro: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write macro %s: %w", path, err)
	}
	return nil
}
