package capture

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/deskctl/deskctl/internal/geom"
)

// withFakeGrab installs a synthetic capture primitive for the test.
func withFakeGrab(t *testing.T, fn func(image.Rectangle) (*image.RGBA, error)) {
	t.Helper()
	orig := grab
	grab = fn
	t.Cleanup(func() { grab = orig })
}

// syntheticGrab renders a raster whose pixel at (x,y) encodes its
// raster-relative position, so crops can be verified per pixel.
func syntheticGrab(r image.Rectangle) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	return img, nil
}

func TestScreenshotValidatesBBox(t *testing.T) {
	withFakeGrab(t, syntheticGrab)

	for _, bad := range []geom.BBox{
		geom.New(0, 0, 0, 100),
		geom.New(0, 0, 100, 0),
		geom.New(0, 0, -10, 10),
	} {
		if _, err := Screenshot(bad, Options{}); err == nil {
			t.Fatalf("Screenshot(%v) should fail validation", bad)
		}
	}
}

func TestScreenshotAllowsNegativeOrigin(t *testing.T) {
	withFakeGrab(t, syntheticGrab)

	img, err := Screenshot(geom.New(-1920, -50, 100, 80), Options{})
	if err != nil {
		t.Fatalf("Screenshot with negative origin: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 80 {
		t.Fatalf("captured %v, want 100x80", img.Bounds())
	}
}

func TestScreenshotCrop(t *testing.T) {
	withFakeGrab(t, syntheticGrab)

	crop := geom.New(10, 20, 30, 40)
	img, err := Screenshot(geom.New(0, 0, 200, 100), Options{Crop: &crop})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 40 {
		t.Fatalf("crop produced %v, want 30x40", img.Bounds())
	}
	// Pixel (0,0) of the crop is raster pixel (10,20).
	got := img.RGBAAt(0, 0)
	if got.R != 10 || got.G != 20 {
		t.Fatalf("crop origin pixel = %v, want R=10 G=20", got)
	}
}

func TestScreenshotRejectsOutOfBoundsCrop(t *testing.T) {
	withFakeGrab(t, func(image.Rectangle) (*image.RGBA, error) {
		t.Fatal("capture should not run for an invalid crop")
		return nil, nil
	})

	for _, crop := range []geom.BBox{
		geom.New(-1, 0, 10, 10),
		geom.New(0, -1, 10, 10),
		geom.New(95, 0, 10, 10),
		geom.New(0, 95, 10, 10),
		geom.New(0, 0, 101, 10),
		geom.New(0, 0, 0, 10),
	} {
		c := crop
		if _, err := Screenshot(geom.New(0, 0, 100, 100), Options{Crop: &c}); err == nil {
			t.Fatalf("crop %v should be rejected", crop)
		}
	}
}

func TestScreenshotBackendFailure(t *testing.T) {
	withFakeGrab(t, func(image.Rectangle) (*image.RGBA, error) {
		return nil, errors.New("compositor said no")
	})

	_, err := Screenshot(geom.New(0, 0, 10, 10), Options{})
	if !errors.Is(err, ErrCapture) {
		t.Fatalf("backend failure error = %v, want ErrCapture", err)
	}
}

func TestScreenshotEmptyRasterIsCaptureError(t *testing.T) {
	withFakeGrab(t, func(image.Rectangle) (*image.RGBA, error) {
		return image.NewRGBA(image.Rect(0, 0, 0, 0)), nil
	})

	_, err := Screenshot(geom.New(0, 0, 10, 10), Options{})
	if !errors.Is(err, ErrCapture) {
		t.Fatalf("empty raster error = %v, want ErrCapture", err)
	}
}

func TestScreenshotSaves(t *testing.T) {
	withFakeGrab(t, syntheticGrab)

	path := filepath.Join(t.TempDir(), "shot.png")
	if _, err := Screenshot(geom.New(0, 0, 20, 20), Options{SavePath: path}); err != nil {
		t.Fatalf("Screenshot with save: %v", err)
	}
	if _, err := Screenshot(geom.New(0, 0, 20, 20), Options{SavePath: filepath.Join(t.TempDir(), "shot.jpg"), Quality: 90}); err != nil {
		t.Fatalf("Screenshot jpg save: %v", err)
	}
}

func TestRegionsSkipsBrokenCrops(t *testing.T) {
	withFakeGrab(t, syntheticGrab)

	crops := []geom.BBox{
		geom.New(0, 0, 10, 10),
		geom.New(500, 0, 10, 10), // outside the 100x100 capture
		geom.New(10, 10, 5, 5),
	}
	out, err := Regions(geom.New(0, 0, 100, 100), crops)
	if err != nil {
		t.Fatalf("Regions: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("Regions returned %d slots, want 3", len(out))
	}
	if out[0] == nil || out[2] == nil {
		t.Fatal("valid crops should be captured")
	}
	if out[1] != nil {
		t.Fatal("out-of-bounds crop should be skipped, not captured")
	}
}
