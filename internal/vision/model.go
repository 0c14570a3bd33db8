package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/deskctl/deskctl/internal/geom"
)

// modelRunnerBin is the external recognizer executable the
// ModelDetector shells out to. It receives the frame as PNG on stdin
// and prints one JSON array of detections on stdout.
const modelRunnerBin = "deskctl-recognize"

// DefaultModelTimeout bounds one recognizer invocation.
const DefaultModelTimeout = 30 * time.Second

// ErrModelTimeout reports a recognizer invocation exceeding its bound.
var ErrModelTimeout = errors.New("model inference timed out")

// modelDetection is the recognizer's wire format for one detection.
type modelDetection struct {
	Left      int     `json:"left"`
	Top       int     `json:"top"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Score     float64 `json:"score"`
	ClassID   *int    `json:"class_id,omitempty"`
	ClassName string  `json:"class_name,omitempty"`
}

// runnerCache remembers, per model path, whether the runner binary and
// model file were found. Verification runs once per path.
var runnerCache = struct {
	mu      sync.Mutex
	entries map[string]*runnerEntry
}{entries: make(map[string]*runnerEntry)}

type runnerEntry struct {
	once sync.Once
	bin  string
	err  error
}

// ModelDetector locates objects with an external detection model. It
// satisfies the same Detector interface as TemplateMatcher, so callers
// that only template-match never pay for the model runtime.
type ModelDetector struct {
	modelPath string
	threshold float64
	bin       string
	timeout   time.Duration
}

// NewModelDetector verifies the recognizer runtime and model file. A
// missing runner binary is ErrPrerequisites, not a hard failure:
// template matching stays available without it.
func NewModelDetector(modelPath string, threshold float64) (*ModelDetector, error) {
	if !(threshold >= 0 && threshold <= 1) {
		return nil, fmt.Errorf("confidence threshold %v outside [0,1]", threshold)
	}
	if modelPath == "" {
		return nil, fmt.Errorf("model path must not be empty")
	}

	runnerCache.mu.Lock()
	entry, ok := runnerCache.entries[modelPath]
	if !ok {
		entry = &runnerEntry{}
		runnerCache.entries[modelPath] = entry
	}
	runnerCache.mu.Unlock()

	entry.once.Do(func() {
		bin, err := exec.LookPath(modelRunnerBin)
		if err != nil {
			entry.err = fmt.Errorf("%w: %s not found in PATH", ErrPrerequisites, modelRunnerBin)
			return
		}
		if _, err := os.Stat(modelPath); err != nil {
			entry.err = fmt.Errorf("model file %s: %w", modelPath, err)
			return
		}
		entry.bin = bin
		log.Debug("model runner verified", "bin", bin, "model", modelPath)
	})
	if entry.err != nil {
		return nil, entry.err
	}

	return &ModelDetector{
		modelPath: modelPath,
		threshold: threshold,
		bin:       entry.bin,
		timeout:   DefaultModelTimeout,
	}, nil
}

// Detect runs the recognizer over img and returns detections clearing
// the confidence threshold, sorted by score descending.
func (d *ModelDetector) Detect(img image.Image) ([]Detection, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil source image", ErrDetection)
	}

	var frame bytes.Buffer
	if err := png.Encode(&frame, img); err != nil {
		return nil, fmt.Errorf("%w: encode frame: %v", ErrDetection, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.bin,
		"--model", d.modelPath,
		"--threshold", fmt.Sprintf("%g", d.threshold),
	)
	cmd.Stdin = &frame
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%w after %s", ErrModelTimeout, d.timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: recognizer: %v", ErrDetection, err)
	}

	var raw []modelDetection
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse recognizer output: %v", ErrDetection, err)
	}

	var dets []Detection
	for _, r := range raw {
		if r.Score < d.threshold {
			continue
		}
		if r.Width <= 0 || r.Height <= 0 {
			log.Warn("dropping degenerate model detection", "bbox", geom.New(r.Left, r.Top, r.Width, r.Height))
			continue
		}
		dets = append(dets, Detection{
			BBox:      geom.New(r.Left, r.Top, r.Width, r.Height),
			Score:     r.Score,
			ClassID:   r.ClassID,
			ClassName: r.ClassName,
		})
	}
	sort.SliceStable(dets, func(i, j int) bool { return dets[i].Score > dets[j].Score })
	return dets, nil
}
