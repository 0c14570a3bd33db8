package vision

import (
	"errors"
	"image"
	"testing"
)

// fakeDetector returns canned detections or a canned error.
type fakeDetector struct {
	dets []Detection
	err  error
}

func (f *fakeDetector) Detect(image.Image) ([]Detection, error) { return f.dets, f.err }

func TestLocateReturnsBest(t *testing.T) {
	d := &fakeDetector{dets: []Detection{
		det(10, 10, 5, 5, 0.99),
		det(50, 50, 5, 5, 0.80),
	}}
	got := Locate(nil, d)
	if got == nil {
		t.Fatal("Locate returned nil")
	}
	if got.Score != 0.99 {
		t.Fatalf("Locate score = %f, want 0.99", got.Score)
	}
}

func TestLocateMatchesLocateAllHead(t *testing.T) {
	d := &fakeDetector{dets: []Detection{
		det(10, 10, 5, 5, 0.7),
		det(30, 10, 5, 5, 0.6),
	}}
	all := LocateAll(nil, d, 0)
	best := Locate(nil, d)
	if len(all) == 0 || best == nil {
		t.Fatal("expected results from both")
	}
	if *best != all[0] {
		t.Fatalf("Locate = %v, want head of LocateAll %v", *best, all[0])
	}
}

func TestLocateDegradesErrorsToNil(t *testing.T) {
	d := &fakeDetector{err: errors.New("boom")}
	if got := Locate(nil, d); got != nil {
		t.Fatalf("Locate on error = %v, want nil", got)
	}
	if got := LocateAll(nil, d, 0); got != nil {
		t.Fatalf("LocateAll on error = %v, want nil", got)
	}
}

func TestLocateAllMinScoreFilter(t *testing.T) {
	d := &fakeDetector{dets: []Detection{
		det(0, 0, 5, 5, 0.9),
		det(10, 0, 5, 5, 0.5),
		det(20, 0, 5, 5, 0.3),
	}}
	got := LocateAll(nil, d, 0.5)
	if len(got) != 2 {
		t.Fatalf("LocateAll(minScore=0.5) returned %d, want 2", len(got))
	}
	for _, dd := range got {
		if dd.Score < 0.5 {
			t.Fatalf("detection %v below min score", dd)
		}
	}
}

func TestLocateNothingFound(t *testing.T) {
	if got := Locate(nil, &fakeDetector{}); got != nil {
		t.Fatalf("Locate with no detections = %v, want nil", got)
	}
}
