// Package geom holds the screen-space rectangle type shared by the
// window, capture, and vision packages.
package geom

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// iouEps keeps the IoU denominator away from zero for degenerate boxes.
const iouEps = 1e-7

// BBox is an axis-aligned rectangle in screen pixel coordinates.
// Width and Height must be positive for a valid box; Left and Top may
// be negative on multi-monitor layouts where a display sits left of or
// above the primary origin.
type BBox struct {
	Left   int `yaml:"left"   json:"left"`
	Top    int `yaml:"top"    json:"top"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// New builds a BBox without validating it.
func New(left, top, width, height int) BBox {
	return BBox{Left: left, Top: top, Width: width, Height: height}
}

// Validate rejects non-positive dimensions.
func (b BBox) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid bbox %s: width and height must be positive", b)
	}
	return nil
}

// Center returns the box center with integer floor division.
func (b BBox) Center() (x, y int) {
	return b.Left + b.Width/2, b.Top + b.Height/2
}

// Right returns the exclusive right edge.
func (b BBox) Right() int { return b.Left + b.Width }

// Bottom returns the exclusive bottom edge.
func (b BBox) Bottom() int { return b.Top + b.Height }

// Area returns Width*Height, 0 for degenerate boxes.
func (b BBox) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Rect converts to an image.Rectangle.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right(), b.Bottom())
}

// FromRect converts an image.Rectangle to a BBox.
func FromRect(r image.Rectangle) BBox {
	return BBox{Left: r.Min.X, Top: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Intersect returns the overlapping region of b and o. A box with
// non-positive Width or Height means the boxes do not overlap.
func (b BBox) Intersect(o BBox) BBox {
	left := max(b.Left, o.Left)
	top := max(b.Top, o.Top)
	right := min(b.Right(), o.Right())
	bottom := min(b.Bottom(), o.Bottom())
	return BBox{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// ContainsBox reports whether o lies entirely inside b.
func (b BBox) ContainsBox(o BBox) bool {
	return o.Left >= b.Left && o.Top >= b.Top &&
		o.Right() <= b.Right() && o.Bottom() <= b.Bottom()
}

// IoU returns the intersection-over-union of two boxes in [0,1].
func IoU(a, b BBox) float64 {
	inter := float64(a.Intersect(b).Area())
	union := float64(a.Area()) + float64(b.Area()) - inter
	return inter / (union + iouEps)
}

// Parse parses a "left,top,width,height" string into a BBox.
func Parse(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("invalid bbox %q: expected left,top,width,height", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return BBox{}, fmt.Errorf("invalid bbox %q: %w", s, err)
		}
		vals[i] = v
	}
	return BBox{Left: vals[0], Top: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func (b BBox) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.Left, b.Top, b.Width, b.Height)
}
