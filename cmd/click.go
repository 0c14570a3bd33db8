package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/input"
	"github.com/deskctl/deskctl/internal/output"
)

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click at coordinates or on a template match",
	Long: `Click at screen coordinates, or locate a template image and click
its center. With --window the template search is confined to that
window's bounds.`,
	RunE: runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	addWindowFlags(clickCmd)
	clickCmd.Flags().IntP("x", "x", 0, "Click at X coordinate")
	clickCmd.Flags().IntP("y", "y", 0, "Click at Y coordinate")
	clickCmd.Flags().StringP("template", "t", "", "Locate this template and click its center")
	clickCmd.Flags().Float64("min-score", -1, "Minimum match score when using --template")
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
	clickCmd.Flags().Bool("double", false, "Double-click")
}

func runClick(cmd *cobra.Command, args []string) error {
	button, _ := cmd.Flags().GetString("button")
	btn, err := input.ParseButton(button)
	if err != nil {
		return err
	}

	x, y, target, err := clickPoint(cmd)
	if err != nil {
		return err
	}

	dev := input.New()
	timing := timingFromConfig(cfg)
	double, _ := cmd.Flags().GetBool("double")
	if double {
		err = input.DoubleClick(dev, x, y, btn, timing)
	} else {
		err = input.Click(dev, x, y, btn, timing)
	}
	if err != nil {
		return err
	}
	return output.Print(output.ActionResult{Action: "click", Target: target, OK: true})
}

// clickPoint resolves the click location from coordinates or from a
// template match. Coordinate presence is checked on the flags, not on
// the values: negative coordinates are valid on multi-monitor layouts.
func clickPoint(cmd *cobra.Command) (x, y int, target string, err error) {
	templatePath, _ := cmd.Flags().GetString("template")
	fx, _ := cmd.Flags().GetInt("x")
	fy, _ := cmd.Flags().GetInt("y")

	if templatePath == "" {
		if !cmd.Flags().Changed("x") || !cmd.Flags().Changed("y") {
			return 0, 0, "", fmt.Errorf("either --template or both --x and --y are required")
		}
		return fx, fy, fmt.Sprintf("%d,%d", fx, fy), nil
	}

	w, err := resolveWindow(cmd)
	if err != nil {
		return 0, 0, "", err
	}
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	dets, err := findOnScreen(w, templatePath, minScore, false)
	if err != nil {
		return 0, 0, "", err
	}
	if len(dets) == 0 {
		return 0, 0, "", fmt.Errorf("template %s not found on screen", templatePath)
	}
	x, y = dets[0].Center()
	return x, y, templatePath, nil
}
