package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/capture"
	"github.com/deskctl/deskctl/internal/config"
	"github.com/deskctl/deskctl/internal/geom"
	"github.com/deskctl/deskctl/internal/input"
	"github.com/deskctl/deskctl/internal/vision"
	"github.com/deskctl/deskctl/internal/window"
)

// addWindowFlags adds the window-targeting flags shared by commands
// that operate on a resolved window.
func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().String("window", "", "Target window by title substring")
	cmd.Flags().Uint64("window-id", 0, "Target window by native ID")
}

// windowQuery reads the window-targeting flags into a resolver query.
func windowQuery(cmd *cobra.Command) window.Query {
	title, _ := cmd.Flags().GetString("window")
	id, _ := cmd.Flags().GetUint64("window-id")
	return window.Query{Title: title, ID: id}
}

// resolveWindow resolves the targeted window, or nil when no targeting
// flag was given.
func resolveWindow(cmd *cobra.Command) (*window.Window, error) {
	q := windowQuery(cmd)
	if q.Title == "" && q.ID == 0 {
		return nil, nil
	}
	r, err := window.NewResolver()
	if err != nil {
		return nil, err
	}
	return r.Get(q)
}

// captureRegion returns the screen region to capture: the window's
// bounds when one is targeted, otherwise the configured display.
func captureRegion(w *window.Window) (geom.BBox, error) {
	if w != nil {
		return w.BBox()
	}
	return capture.Display(cfg.Capture.Display)
}

// matcherOptions builds matcher options from the loaded config, letting
// per-command flags override the threshold.
func matcherOptions(threshold float64) (vision.MatcherOptions, error) {
	method, err := vision.ParseMethod(cfg.Match.Method)
	if err != nil {
		return vision.MatcherOptions{}, err
	}
	if threshold < 0 {
		threshold = cfg.Match.Threshold
	}
	return vision.MatcherOptions{
		Threshold:  threshold,
		Method:     method,
		Scales:     cfg.Match.Scales,
		MaxResults: cfg.Match.MaxResults,
		IoU:        cfg.Match.IoU,
	}, nil
}

// timingFromConfig converts configured millisecond delays to input
// timing.
func timingFromConfig(c *config.Config) input.Timing {
	t := input.DefaultTiming
	if c.Input.ClickDelayMs > 0 {
		t.ClickDelay = msDuration(c.Input.ClickDelayMs)
	}
	if c.Input.DragSettleMs > 0 {
		t.DragSettle = msDuration(c.Input.DragSettleMs)
	}
	t.DragRateHz = c.Input.DragRateHz
	if c.Input.ScrollDelayMs > 0 {
		t.ScrollDelay = msDuration(c.Input.ScrollDelayMs)
	}
	if c.Input.TypeDelayMs > 0 {
		t.TypeDelay = msDuration(c.Input.TypeDelayMs)
	}
	return t
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// findOnScreen captures the search region and runs the matcher over
// it, returning detections in absolute screen coordinates.
func findOnScreen(w *window.Window, templatePath string, threshold float64, all bool) ([]vision.Detection, error) {
	opts, err := matcherOptions(threshold)
	if err != nil {
		return nil, err
	}
	m, err := vision.Matchers.Get(templatePath, opts)
	if err != nil {
		return nil, err
	}

	region, err := captureRegion(w)
	if err != nil {
		return nil, err
	}
	img, err := capture.Screenshot(region, capture.Options{})
	if err != nil {
		return nil, err
	}

	var dets []vision.Detection
	if all {
		dets = vision.LocateAll(img, m, 0)
	} else if d := vision.Locate(img, m); d != nil {
		dets = []vision.Detection{*d}
	}

	// Matching runs in raster coordinates; shift to screen space.
	for i := range dets {
		dets[i].BBox.Left += region.Left
		dets[i].BBox.Top += region.Top
	}
	return dets, nil
}
