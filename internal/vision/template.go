package vision

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // template decoding
	_ "image/png"
	"math"
	"os"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/deskctl/deskctl/internal/geom"
)

const (
	// DefaultThreshold is the score cutoff applied by callers that do
	// not carry their own configuration.
	DefaultThreshold = 0.8
	// DefaultIoU is the NMS overlap threshold.
	DefaultIoU = 0.3

	scoreEps = 1e-7
)

// MatcherOptions configures a TemplateMatcher. Zero-value Scales and
// IoU fall back to {1.0} and DefaultIoU; Threshold is taken literally.
type MatcherOptions struct {
	Threshold  float64
	Method     Method
	Scales     []float64
	MaxResults int
	IoU        float64
}

// TemplateMatcher locates a grayscale template inside larger images by
// scanning every position at every configured scale and keeping the
// positions whose correlation clears the threshold.
type TemplateMatcher struct {
	tpl  *image.Gray
	opts MatcherOptions
}

// NewMatcherFromFile decodes a PNG or JPEG template from disk.
func NewMatcherFromFile(path string, opts MatcherOptions) (*TemplateMatcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrTemplateNotFound, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrTemplateNotFound, path, err)
	}
	return NewMatcher(img, opts)
}

// NewMatcherFromGray wraps a raw 8-bit grayscale buffer (row-major,
// w*h bytes). The buffer is copied.
func NewMatcherFromGray(pix []uint8, w, h int, opts MatcherOptions) (*TemplateMatcher, error) {
	if w <= 0 || h <= 0 || len(pix) != w*h {
		return nil, fmt.Errorf("%w: raw template %dx%d with %d bytes", ErrTemplateNotFound, w, h, len(pix))
	}
	g := &image.Gray{Pix: append([]uint8(nil), pix...), Stride: w, Rect: image.Rect(0, 0, w, h)}
	return NewMatcher(g, opts)
}

// NewMatcher builds a matcher from a decoded template image. The
// template is converted to grayscale once and owned by the matcher.
func NewMatcher(img image.Image, opts MatcherOptions) (*TemplateMatcher, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil template image", ErrTemplateNotFound)
	}
	if !(opts.Threshold >= 0 && opts.Threshold <= 1) {
		return nil, fmt.Errorf("threshold %v outside [0,1]", opts.Threshold)
	}
	if opts.Scales == nil {
		opts.Scales = []float64{1.0}
	}
	for _, s := range opts.Scales {
		if !(s > 0) {
			return nil, fmt.Errorf("scale factor %v must be positive", s)
		}
	}
	if opts.IoU == 0 {
		opts.IoU = DefaultIoU
	}
	if !(opts.IoU > 0 && opts.IoU <= 1) {
		return nil, fmt.Errorf("iou threshold %v outside (0,1]", opts.IoU)
	}
	if opts.MaxResults < 0 {
		return nil, fmt.Errorf("max results %d must be >= 0", opts.MaxResults)
	}

	tpl := grayCopy(img)
	if tpl.Bounds().Dx() == 0 || tpl.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("%w: template rasterizes to 0x0", ErrTemplateNotFound)
	}
	return &TemplateMatcher{tpl: tpl, opts: opts}, nil
}

// Size returns the unscaled template dimensions.
func (m *TemplateMatcher) Size() (w, h int) {
	return m.tpl.Bounds().Dx(), m.tpl.Bounds().Dy()
}

// Detect scans src at every configured scale, thresholds the raw
// correlation map, collapses overlaps with NMS, and returns the
// surviving detections sorted by score descending.
func (m *TemplateMatcher) Detect(src image.Image) ([]Detection, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source image", ErrDetection)
	}
	img := toGray(src)
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	if iw == 0 || ih == 0 {
		return nil, fmt.Errorf("%w: empty source image", ErrDetection)
	}

	var raw []Detection
	for _, factor := range m.opts.Scales {
		tw := int(math.Round(float64(m.tpl.Bounds().Dx()) * factor))
		th := int(math.Round(float64(m.tpl.Bounds().Dy()) * factor))
		if tw <= 0 || th <= 0 || tw > iw || th > ih {
			log.Debug("skipping scale factor", "factor", factor, "scaled", fmt.Sprintf("%dx%d", tw, th), "image", fmt.Sprintf("%dx%d", iw, ih))
			continue
		}
		raw = append(raw, scanTemplate(img, scaleGray(m.tpl, tw, th, factor), m.opts.Method, m.opts.Threshold)...)
	}

	kept := SuppressOverlaps(raw, m.opts.IoU)
	sortByScore(kept)
	if m.opts.MaxResults > 0 && len(kept) > m.opts.MaxResults {
		kept = kept[:m.opts.MaxResults]
	}
	return kept, nil
}

// scanTemplate returns a raw detection for every placement of tpl
// inside img whose score clears threshold.
func scanTemplate(img, tpl *image.Gray, method Method, threshold float64) []Detection {
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	tw, th := tpl.Bounds().Dx(), tpl.Bounds().Dy()
	n := float64(tw * th)

	var tplSum, tplSumSq float64
	for y := 0; y < th; y++ {
		row := tpl.Pix[y*tpl.Stride : y*tpl.Stride+tw]
		for _, v := range row {
			f := float64(v)
			tplSum += f
			tplSumSq += f * f
		}
	}

	var dets []Detection
	for y := 0; y <= ih-th; y++ {
		for x := 0; x <= iw-tw; x++ {
			score := scoreWindow(img, tpl, x, y, tw, th, n, tplSum, tplSumSq, method)
			if score >= threshold {
				dets = append(dets, Detection{BBox: geom.New(x, y, tw, th), Score: score})
			}
		}
	}
	return dets
}

// scoreWindow correlates tpl against the window of img at (ox,oy).
// All methods report higher-is-better; the squared-difference variant
// is inverted here so thresholding and ranking stay uniform.
func scoreWindow(img, tpl *image.Gray, ox, oy, tw, th int, n, tplSum, tplSumSq float64, method Method) float64 {
	var winSum, winSumSq, cross, diffSq float64
	for y := 0; y < th; y++ {
		trow := tpl.Pix[y*tpl.Stride : y*tpl.Stride+tw]
		irow := img.Pix[(oy+y)*img.Stride+ox : (oy+y)*img.Stride+ox+tw]
		for x := 0; x < tw; x++ {
			tv := float64(trow[x])
			iv := float64(irow[x])
			winSum += iv
			winSumSq += iv * iv
			cross += tv * iv
			d := tv - iv
			diffSq += d * d
		}
	}

	switch method {
	case MethodCCorrNormed:
		den := math.Sqrt(tplSumSq * winSumSq)
		if den < scoreEps {
			// Both patches all-black correlate perfectly; one-sided
			// degeneracy cannot.
			if tplSumSq < scoreEps && winSumSq < scoreEps {
				return 1
			}
			return 0
		}
		return clampScore(cross / den)

	case MethodSqdiffNormed:
		den := math.Sqrt(tplSumSq * winSumSq)
		if den < scoreEps {
			if diffSq < scoreEps {
				return 1
			}
			return 0
		}
		d := diffSq / den
		if d > 1 {
			d = 1
		}
		return 1 - d

	default: // MethodCCoeffNormed
		varT := tplSumSq - tplSum*tplSum/n
		varW := winSumSq - winSum*winSum/n
		if varT < 0 {
			varT = 0
		}
		if varW < 0 {
			varW = 0
		}
		den := math.Sqrt(varT * varW)
		if den < scoreEps {
			// Flat patches carry no texture to correlate. Two flat
			// patches count as a match by mean closeness; a flat
			// template over a textured window (or vice versa) does not.
			if varT < scoreEps && varW < scoreEps {
				return 1 - math.Abs(tplSum-winSum)/n/255
			}
			return 0
		}
		num := cross - tplSum*winSum/n
		return clampScore(num / den)
	}
}

func clampScore(s float64) float64 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

// scaleGray resizes a grayscale image, BiLinear when shrinking and
// CatmullRom when enlarging.
func scaleGray(src *image.Gray, w, h int, factor float64) *image.Gray {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if factor < 1 {
		xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	}
	return dst
}

// toGray converts an image to 8-bit grayscale with a zero origin,
// passing through zero-origin *image.Gray unchanged.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == image.Pt(0, 0) {
		return g
	}
	return grayCopy(img)
}

// grayCopy always allocates a fresh zero-origin grayscale copy.
func grayCopy(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			lum := (r*299 + g*587 + bl*114) / 1000
			out.SetGray(x, y, color.Gray{Y: uint8(lum >> 8)})
		}
	}
	return out
}

func sortByScore(dets []Detection) {
	sort.SliceStable(dets, func(i, j int) bool { return dets[i].Score > dets[j].Score })
}
