package cmd

import (
	"testing"
	"time"

	"github.com/deskctl/deskctl/internal/config"
	"github.com/deskctl/deskctl/internal/vision"
)

func TestTimingFromConfig(t *testing.T) {
	c := config.Default()
	c.Input.ClickDelayMs = 25
	c.Input.DragSettleMs = 80
	c.Input.ScrollDelayMs = 15
	c.Input.TypeDelayMs = 7

	got := timingFromConfig(c)
	if got.ClickDelay != 25*time.Millisecond {
		t.Errorf("ClickDelay = %v, want 25ms", got.ClickDelay)
	}
	if got.DragSettle != 80*time.Millisecond {
		t.Errorf("DragSettle = %v, want 80ms", got.DragSettle)
	}
	if got.ScrollDelay != 15*time.Millisecond {
		t.Errorf("ScrollDelay = %v, want 15ms", got.ScrollDelay)
	}
	if got.TypeDelay != 7*time.Millisecond {
		t.Errorf("TypeDelay = %v, want 7ms", got.TypeDelay)
	}
}

func TestTimingFromConfigZeroKeepsDefaults(t *testing.T) {
	c := config.Default()
	c.Input.ClickDelayMs = 0
	got := timingFromConfig(c)
	if got.ClickDelay != 10*time.Millisecond {
		t.Errorf("ClickDelay = %v, want default 10ms", got.ClickDelay)
	}
}

func TestMatcherOptions(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = config.Default()
	cfg.Match.Threshold = 0.7
	cfg.Match.Method = "sqdiff_normed"
	cfg.Match.Scales = []float64{0.5, 1.0}
	cfg.Match.IoU = 0.4
	cfg.Match.MaxResults = 3

	opts, err := matcherOptions(-1)
	if err != nil {
		t.Fatalf("matcherOptions(-1) = %v, want nil", err)
	}
	if opts.Threshold != 0.7 {
		t.Errorf("Threshold = %v, want configured 0.7", opts.Threshold)
	}
	if opts.Method != vision.MethodSqdiffNormed {
		t.Errorf("Method = %v, want sqdiff_normed", opts.Method)
	}
	if len(opts.Scales) != 2 || opts.IoU != 0.4 || opts.MaxResults != 3 {
		t.Errorf("opts = %+v, want config values carried through", opts)
	}

	opts, err = matcherOptions(0.95)
	if err != nil {
		t.Fatalf("matcherOptions(0.95) = %v, want nil", err)
	}
	if opts.Threshold != 0.95 {
		t.Errorf("Threshold = %v, want override 0.95", opts.Threshold)
	}
}

func TestMatcherOptionsBadMethod(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = config.Default()
	cfg.Match.Method = "phase_corr"
	if _, err := matcherOptions(-1); err == nil {
		t.Fatal("matcherOptions() with unknown method = nil, want error")
	}
}

func TestParamHelpers(t *testing.T) {
	params := map[string]interface{}{
		"title":  "Editor",
		"count":  float64(4),
		"score":  0.75,
		"double": true,
	}
	if got := stringParam(params, "title", ""); got != "Editor" {
		t.Errorf("stringParam = %q, want %q", got, "Editor")
	}
	if got := stringParam(params, "missing", "fallback"); got != "fallback" {
		t.Errorf("stringParam default = %q, want %q", got, "fallback")
	}
	if got := intParam(params, "count", 0); got != 4 {
		t.Errorf("intParam = %d, want 4", got)
	}
	if got := intParam(params, "missing", -1); got != -1 {
		t.Errorf("intParam default = %d, want -1", got)
	}
	if got := floatParam(params, "score", 0); got != 0.75 {
		t.Errorf("floatParam = %v, want 0.75", got)
	}
	if got := boolParam(params, "double", false); !got {
		t.Error("boolParam = false, want true")
	}
	if got := boolParam(params, "title", false); got {
		t.Error("boolParam on string value = true, want default false")
	}
}

func TestNumberParamReportsPresence(t *testing.T) {
	params := map[string]interface{}{
		"x": float64(-5),
		"y": float64(0),
	}
	if got, ok := numberParam(params, "x"); !ok || got != -5 {
		t.Errorf("numberParam(x) = (%d, %v), want (-5, true)", got, ok)
	}
	if got, ok := numberParam(params, "y"); !ok || got != 0 {
		t.Errorf("numberParam(y) = (%d, %v), want (0, true)", got, ok)
	}
	if got, ok := numberParam(params, "missing"); ok || got != 0 {
		t.Errorf("numberParam(missing) = (%d, %v), want (0, false)", got, ok)
	}
}

func TestMsDuration(t *testing.T) {
	if got := msDuration(250); got != 250*time.Millisecond {
		t.Fatalf("msDuration(250) = %v, want 250ms", got)
	}
}
