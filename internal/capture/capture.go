// Package capture acquires screen rasters bound to screen-space
// bounding boxes and feeds them to the vision package.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbinani/screenshot"

	"github.com/deskctl/deskctl/internal/geom"
	"github.com/deskctl/deskctl/internal/logging"
)

var log = logging.New("capture")

// ErrCapture reports that the OS capture backend produced no pixels.
// Parameter validation failures are plain errors, not ErrCapture.
var ErrCapture = errors.New("screen capture failed")

// grab is the OS capture primitive, swappable in tests.
var grab = func(r image.Rectangle) (*image.RGBA, error) {
	return screenshot.CaptureRect(r)
}

// Options adjusts one Screenshot call.
type Options struct {
	// Crop, when non-nil, is applied to the captured raster. Its
	// coordinates are relative to the raster origin and it must fit
	// entirely inside the capture.
	Crop *geom.BBox
	// SavePath, when set, writes the result to disk (format from the
	// extension, PNG by default).
	SavePath string
	// Quality is the JPEG quality for .jpg/.jpeg SavePaths.
	Quality int
}

// Screenshot captures the screen region covered by bbox. Negative
// origins are legal on multi-monitor layouts and only logged.
func Screenshot(bbox geom.BBox, opts Options) (*image.RGBA, error) {
	if err := bbox.Validate(); err != nil {
		return nil, err
	}
	if bbox.Left < 0 || bbox.Top < 0 {
		log.Debug("capturing at negative origin (multi-monitor)", "bbox", bbox)
	}
	if opts.Crop != nil {
		if err := validateCrop(*opts.Crop, bbox.Width, bbox.Height); err != nil {
			return nil, err
		}
	}

	img, err := grab(bbox.Rect())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}
	if img == nil || img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("%w: backend returned no pixels for %s", ErrCapture, bbox)
	}

	if opts.Crop != nil {
		img = cropRaster(img, *opts.Crop)
	}
	if opts.SavePath != "" {
		if err := Save(img, opts.SavePath, opts.Quality); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// Display returns the bounding box of the display at the given index.
func Display(index int) (geom.BBox, error) {
	if index < 0 || index >= screenshot.NumActiveDisplays() {
		return geom.BBox{}, fmt.Errorf("display index %d out of range (%d displays)", index, screenshot.NumActiveDisplays())
	}
	return geom.FromRect(screenshot.GetDisplayBounds(index)), nil
}

// Regions captures several crops of one bbox in a single screen grab.
// A crop that does not fit is logged and skipped; its slot in the
// result is nil.
func Regions(bbox geom.BBox, crops []geom.BBox) ([]*image.RGBA, error) {
	full, err := Screenshot(bbox, Options{})
	if err != nil {
		return nil, err
	}

	out := make([]*image.RGBA, len(crops))
	for i, crop := range crops {
		if err := validateCrop(crop, bbox.Width, bbox.Height); err != nil {
			log.Warn("skipping region", "index", i, "err", err)
			continue
		}
		out[i] = cropRaster(full, crop)
	}
	return out, nil
}

// Save encodes img to path. The extension picks the codec: .jpg/.jpeg
// with the given quality, anything else PNG.
func Save(img image.Image, path string, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		if quality <= 0 || quality > 100 {
			quality = 80
		}
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
	default:
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
	}
	return nil
}

// validateCrop checks that crop is a positive rectangle lying entirely
// inside a w x h raster.
func validateCrop(crop geom.BBox, w, h int) error {
	if err := crop.Validate(); err != nil {
		return fmt.Errorf("invalid crop: %w", err)
	}
	if crop.Left < 0 || crop.Top < 0 || crop.Right() > w || crop.Bottom() > h {
		return fmt.Errorf("crop %s exceeds captured raster %dx%d", crop, w, h)
	}
	return nil
}

// cropRaster slices a sub-image and normalizes it to a zero origin.
func cropRaster(img *image.RGBA, crop geom.BBox) *image.RGBA {
	r := crop.Rect().Add(img.Bounds().Min)
	sub := img.SubImage(r).(*image.RGBA)

	out := image.NewRGBA(image.Rect(0, 0, crop.Width, crop.Height))
	for y := 0; y < crop.Height; y++ {
		srcOff := sub.PixOffset(r.Min.X, r.Min.Y+y)
		dstOff := out.PixOffset(0, y)
		copy(out.Pix[dstOff:dstOff+crop.Width*4], sub.Pix[srcOff:srcOff+crop.Width*4])
	}
	return out
}
