package vision

import (
	"sort"

	"github.com/deskctl/deskctl/internal/geom"
)

// SuppressOverlaps collapses overlapping detections with greedy
// non-maximum suppression: the highest-scoring detection of each
// cluster survives, every other detection overlapping it by more than
// iouThreshold is dropped. The result is sorted by score descending.
func SuppressOverlaps(dets []Detection, iouThreshold float64) []Detection {
	if len(dets) == 0 {
		return nil
	}

	sorted := append([]Detection(nil), dets...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	var kept []Detection
	for len(sorted) > 0 {
		best := sorted[0]
		kept = append(kept, best)

		remaining := sorted[:0]
		for _, d := range sorted[1:] {
			if geom.IoU(best.BBox, d.BBox) <= iouThreshold {
				remaining = append(remaining, d)
			}
		}
		sorted = remaining
	}
	return kept
}
