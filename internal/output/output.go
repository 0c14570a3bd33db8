// Package output serializes command results to stdout in the format
// selected by the root --format flag.
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deskctl/deskctl/internal/geom"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// WindowResult describes one resolved window.
type WindowResult struct {
	ID      uint64     `yaml:"id"                json:"id"`
	Title   string     `yaml:"title"             json:"title"`
	Backend string     `yaml:"backend,omitempty" json:"backend,omitempty"`
	Active  bool       `yaml:"active"            json:"active"`
	BBox    *geom.BBox `yaml:"bbox,omitempty"    json:"bbox,omitempty"`
}

// ListResult is the top-level output of the `list` command.
type ListResult struct {
	TS      int64          `yaml:"ts"      json:"ts"`
	Windows []WindowResult `yaml:"windows" json:"windows"`
}

// Match is one template or model detection in a find result.
type Match struct {
	BBox  geom.BBox `yaml:"bbox"            json:"bbox"`
	Score float64   `yaml:"score"           json:"score"`
	Label string    `yaml:"label,omitempty" json:"label,omitempty"`
}

// FindResult is the top-level output of the `find` command.
type FindResult struct {
	Template string  `yaml:"template,omitempty" json:"template,omitempty"`
	Window   string  `yaml:"window,omitempty"   json:"window,omitempty"`
	TS       int64   `yaml:"ts"                 json:"ts"`
	Matches  []Match `yaml:"matches"            json:"matches"`
}

// CaptureResult is the top-level output of the `screenshot` command.
type CaptureResult struct {
	Path   string    `yaml:"path"   json:"path"`
	BBox   geom.BBox `yaml:"bbox"   json:"bbox"`
	Width  int       `yaml:"width"  json:"width"`
	Height int       `yaml:"height" json:"height"`
	TS     int64     `yaml:"ts"     json:"ts"`
}

// ActionResult reports a completed input or window action.
type ActionResult struct {
	Action string `yaml:"action"           json:"action"`
	Target string `yaml:"target,omitempty" json:"target,omitempty"`
	OK     bool   `yaml:"ok"               json:"ok"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(v)
		}
		return PrintJSON(v)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to stdout as compact single-line JSON.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintPrettyJSON serializes v to stdout as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
