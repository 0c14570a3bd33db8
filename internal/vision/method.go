package vision

import (
	"fmt"
	"strings"
)

// Method selects the correlation variant used by the template matcher.
// Only normalized variants are supported so all scores land in a
// comparable range.
type Method int

const (
	// MethodCCoeffNormed is mean-shifted normalized cross-correlation.
	MethodCCoeffNormed Method = iota
	// MethodCCorrNormed is plain normalized cross-correlation.
	MethodCCorrNormed
	// MethodSqdiffNormed is normalized squared difference. Its raw
	// value ranks lower-is-better, so the matcher inverts it to
	// score = 1 - difference before thresholding and ranking.
	MethodSqdiffNormed
)

func (m Method) String() string {
	switch m {
	case MethodCCoeffNormed:
		return "ccoeff_normed"
	case MethodCCorrNormed:
		return "ccorr_normed"
	case MethodSqdiffNormed:
		return "sqdiff_normed"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod resolves a method name. Unsupported names, including the
// non-normalized correlation variants, are an error.
func ParseMethod(s string) (Method, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "tm_")
	switch name {
	case "ccoeff_normed", "":
		return MethodCCoeffNormed, nil
	case "ccorr_normed":
		return MethodCCorrNormed, nil
	case "sqdiff_normed":
		return MethodSqdiffNormed, nil
	default:
		return 0, fmt.Errorf("unsupported match method %q (use ccoeff_normed, ccorr_normed, or sqdiff_normed)", s)
	}
}
