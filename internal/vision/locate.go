package vision

import "image"

// Locate returns the single best detection, or nil when nothing clears
// the detector's threshold. Detection errors degrade to nil so callers
// can treat "failed to match" and "matched nothing" uniformly.
func Locate(img image.Image, d Detector) *Detection {
	dets := LocateAll(img, d, 0)
	if len(dets) == 0 {
		return nil
	}
	best := dets[0]
	return &best
}

// LocateAll returns every detection with score >= minScore, sorted by
// score descending. Detection errors degrade to an empty result.
func LocateAll(img image.Image, d Detector, minScore float64) []Detection {
	dets, err := d.Detect(img)
	if err != nil {
		log.Warn("detection degraded to no result", "err", err)
		return nil
	}
	if minScore <= 0 {
		return dets
	}
	filtered := dets[:0]
	for _, det := range dets {
		if det.Score >= minScore {
			filtered = append(filtered, det)
		}
	}
	return filtered
}
