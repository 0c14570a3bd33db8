package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/capture"
	"github.com/deskctl/deskctl/internal/geom"
	"github.com/deskctl/deskctl/internal/output"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the screen, a display, or a window",
	Long: `Capture screen pixels to an image file.

With --window the targeted window is raised and its bounds captured.
With --bbox an arbitrary screen region is captured. Otherwise the
configured display is captured whole. --crop cuts a region out of the
captured raster before saving.`,
	RunE: runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	addWindowFlags(screenshotCmd)
	screenshotCmd.Flags().String("bbox", "", "Capture region as left,top,width,height")
	screenshotCmd.Flags().Int("display", -1, "Display index (default: configured display)")
	screenshotCmd.Flags().String("crop", "", "Crop region as left,top,width,height, relative to the capture")
	screenshotCmd.Flags().StringP("output", "o", "screenshot.png", "Output file (.png or .jpg)")
	screenshotCmd.Flags().Int("quality", 80, "JPEG quality 1-100")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("output")
	quality, _ := cmd.Flags().GetInt("quality")

	region, err := screenshotRegion(cmd)
	if err != nil {
		return err
	}

	opts := capture.Options{SavePath: outPath, Quality: quality}
	if cropSpec, _ := cmd.Flags().GetString("crop"); cropSpec != "" {
		crop, err := geom.Parse(cropSpec)
		if err != nil {
			return err
		}
		opts.Crop = &crop
	}

	img, err := capture.Screenshot(region, opts)
	if err != nil {
		return err
	}

	size := img.Bounds().Size()
	return output.Print(output.CaptureResult{
		Path:   outPath,
		BBox:   region,
		Width:  size.X,
		Height: size.Y,
		TS:     time.Now().Unix(),
	})
}

func screenshotRegion(cmd *cobra.Command) (geom.BBox, error) {
	if spec, _ := cmd.Flags().GetString("bbox"); spec != "" {
		return geom.Parse(spec)
	}
	w, err := resolveWindow(cmd)
	if err != nil {
		return geom.BBox{}, err
	}
	if w != nil {
		if err := w.Activate(); err != nil {
			return geom.BBox{}, err
		}
		return w.BBox()
	}
	display, _ := cmd.Flags().GetInt("display")
	if display < 0 {
		display = cfg.Capture.Display
	}
	return capture.Display(display)
}
