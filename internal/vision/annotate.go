package vision

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Annotate draws each detection's bounding box and a score label onto
// a copy of img. Detections carry coordinates in img's pixel space.
func Annotate(img image.Image, dets []Detection) *image.RGBA {
	rgba := toRGBA(img)

	boxColor := color.RGBA{R: 255, G: 0, B: 0, A: 255}
	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor := color.RGBA{R: 0, G: 0, B: 0, A: 200}

	for _, d := range dets {
		b := d.BBox
		drawRectangle(rgba, b.Left, b.Top, b.Right(), b.Bottom(), boxColor)

		label := fmt.Sprintf("%.2f", d.Score)
		if d.ClassName != "" {
			label = fmt.Sprintf("%s %.2f", d.ClassName, d.Score)
		}
		cx, cy := d.Center()
		drawTextWithOutline(rgba, label, cx, cy, textColor, outlineColor)
	}
	return rgba
}

func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

func inBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

// drawRectangle draws a one-pixel rectangle outline clamped to the
// image bounds.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}
	if y2 > bounds.Max.Y {
		y2 = bounds.Max.Y
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x < x2; x++ {
		if inBounds(bounds, x, y1) {
			img.Set(x, y1, c)
		}
		if inBounds(bounds, x, y2-1) {
			img.Set(x, y2-1, c)
		}
	}
	for y := y1; y < y2; y++ {
		if inBounds(bounds, x1, y) {
			img.Set(x1, y, c)
		}
		if inBounds(bounds, x2-1, y) {
			img.Set(x2-1, y, c)
		}
	}
}

// drawTextWithOutline draws text centered at (x,y) with a one-pixel
// outline for visibility over arbitrary backgrounds.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	// basicfont.Face7x13: ~7px per character, 13px tall.
	textWidth := len(text) * 7
	textHeight := 13

	offsetX := x - textWidth/2
	offsetY := y - textHeight/2

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(outlineColor),
				Face: basicfont.Face7x13,
				Dot: fixed.Point26_6{
					X: fixed.Int26_6((offsetX + dx) * 64),
					Y: fixed.Int26_6((offsetY + dy) * 64),
				},
			}
			d.DrawString(text)
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(offsetX * 64),
			Y: fixed.Int26_6(offsetY * 64),
		},
	}
	d.DrawString(text)
}
