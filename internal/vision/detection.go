// Package vision locates reference images inside captured frames. The
// two detector implementations share one interface: TemplateMatcher
// does multi-scale normalized correlation, ModelDetector bridges to an
// external object-detection process.
package vision

import (
	"errors"
	"image"

	"github.com/deskctl/deskctl/internal/geom"
	"github.com/deskctl/deskctl/internal/logging"
)

var log = logging.New("vision")

var (
	// ErrTemplateNotFound reports a missing, undecodable, or empty
	// template image.
	ErrTemplateNotFound = errors.New("template not found or empty")
	// ErrDetection reports a raster-conversion or correlation failure.
	ErrDetection = errors.New("detection failed")
	// ErrPrerequisites reports a missing detector runtime. Callers can
	// still construct a TemplateMatcher when this fires.
	ErrPrerequisites = errors.New("detector prerequisites unavailable")
)

// Detection is one scored match. Scores are method-dependent but
// always compare as higher-is-better.
type Detection struct {
	BBox      geom.BBox `yaml:"bbox"                 json:"bbox"`
	Score     float64   `yaml:"score"                json:"score"`
	ClassID   *int      `yaml:"class_id,omitempty"   json:"class_id,omitempty"`
	ClassName string    `yaml:"class_name,omitempty" json:"class_name,omitempty"`
}

// Center returns the match center in the searched image's coordinates,
// floor division.
func (d Detection) Center() (x, y int) {
	return d.BBox.Center()
}

// Detector produces ranked detections from an image.
type Detector interface {
	Detect(img image.Image) ([]Detection, error)
}
