package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/capture"
	"github.com/deskctl/deskctl/internal/output"
	"github.com/deskctl/deskctl/internal/vision"
	"github.com/deskctl/deskctl/internal/window"
)

// findPollInterval is the delay between polls when --timeout waits for
// a template to appear.
const findPollInterval = 250 * time.Millisecond

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Locate a template image on screen",
	Long: `Search the screen (or a window) for a template image and report
the match positions.

With --timeout the search polls until the template appears or the
deadline passes. With --model the search runs an object-detection
model instead of template matching.`,
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	addWindowFlags(findCmd)
	findCmd.Flags().StringP("template", "t", "", "Template image path (.png or .jpg)")
	findCmd.Flags().String("model", "", "Detection model path (uses the recognizer runtime)")
	findCmd.Flags().Bool("all", false, "Report every match, not just the best")
	findCmd.Flags().Float64("min-score", -1, "Minimum match score (default: configured threshold)")
	findCmd.Flags().Float64("timeout", 0, "Poll up to this many seconds for a match")
	findCmd.Flags().String("annotate", "", "Write the searched image with match boxes drawn to this path")
}

func runFind(cmd *cobra.Command, args []string) error {
	templatePath, _ := cmd.Flags().GetString("template")
	modelPath, _ := cmd.Flags().GetString("model")
	if templatePath == "" && modelPath == "" {
		return fmt.Errorf("--template or --model is required")
	}
	if templatePath != "" && modelPath != "" {
		return fmt.Errorf("--template and --model are mutually exclusive")
	}

	w, err := resolveWindow(cmd)
	if err != nil {
		return err
	}

	all, _ := cmd.Flags().GetBool("all")
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	timeout, _ := cmd.Flags().GetFloat64("timeout")
	annotatePath, _ := cmd.Flags().GetString("annotate")

	search := func() ([]vision.Detection, error) {
		if modelPath != "" {
			return findWithModel(w, modelPath, minScore, all)
		}
		return findOnScreen(w, templatePath, minScore, all)
	}

	dets, err := search()
	if err != nil {
		return err
	}
	deadline := time.Now().Add(time.Duration(timeout * float64(time.Second)))
	for len(dets) == 0 && time.Now().Before(deadline) {
		time.Sleep(findPollInterval)
		if dets, err = search(); err != nil {
			return err
		}
	}

	if annotatePath != "" {
		if err := writeAnnotated(w, dets, annotatePath); err != nil {
			return err
		}
	}

	result := output.FindResult{
		Template: templatePath,
		TS:       time.Now().Unix(),
		Matches:  []output.Match{},
	}
	if w != nil {
		result.Window = w.Title()
	}
	for _, d := range dets {
		result.Matches = append(result.Matches, output.Match{
			BBox:  d.BBox,
			Score: d.Score,
			Label: d.ClassName,
		})
	}
	return output.Print(result)
}

func findWithModel(w *window.Window, modelPath string, minScore float64, all bool) ([]vision.Detection, error) {
	threshold := minScore
	if threshold < 0 {
		threshold = cfg.Match.Threshold
	}
	det, err := vision.NewModelDetector(modelPath, threshold)
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
		dets = vision.LocateAll(img, det, 0)
	} else if d := vision.Locate(img, det); d != nil {
		dets = []vision.Detection{*d}
	}
	for i := range dets {
		dets[i].BBox.Left += region.Left
		dets[i].BBox.Top += region.Top
	}
	return dets, nil
}

// writeAnnotated re-captures the search region and saves it with the
// match boxes drawn on top. Detections arrive in screen coordinates,
// so they are shifted back into the raster before drawing.
func writeAnnotated(w *window.Window, dets []vision.Detection, path string) error {
	region, err := captureRegion(w)
	if err != nil {
		return err
	}
	img, err := capture.Screenshot(region, capture.Options{})
	if err != nil {
		return err
	}
	local := make([]vision.Detection, len(dets))
	copy(local, dets)
	for i := range local {
		local[i].BBox.Left -= region.Left
		local[i].BBox.Top -= region.Top
	}
	return capture.Save(vision.Annotate(img, local), path, 0)
}
