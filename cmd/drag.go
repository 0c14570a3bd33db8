package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/input"
	"github.com/deskctl/deskctl/internal/output"
)

var dragCmd = &cobra.Command{
	Use:   "drag",
	Short: "Drag the mouse between two points",
	Long:  "Press at the start point, sweep to the end point over the given duration, and release.",
	RunE:  runDrag,
}

func init() {
	rootCmd.AddCommand(dragCmd)
	dragCmd.Flags().Int("from-x", 0, "Drag start X coordinate")
	dragCmd.Flags().Int("from-y", 0, "Drag start Y coordinate")
	dragCmd.Flags().Int("to-x", 0, "Drag end X coordinate")
	dragCmd.Flags().Int("to-y", 0, "Drag end Y coordinate")
	dragCmd.Flags().Float64("duration", 0.5, "Sweep duration in seconds (0 = instant)")
	dragCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
}

func runDrag(cmd *cobra.Command, args []string) error {
	for _, name := range []string{"from-x", "from-y", "to-x", "to-y"} {
		if !cmd.Flags().Changed(name) {
			return fmt.Errorf("--from-x, --from-y, --to-x, and --to-y are all required")
		}
	}
	fromX, _ := cmd.Flags().GetInt("from-x")
	fromY, _ := cmd.Flags().GetInt("from-y")
	toX, _ := cmd.Flags().GetInt("to-x")
	toY, _ := cmd.Flags().GetInt("to-y")

	button, _ := cmd.Flags().GetString("button")
	btn, err := input.ParseButton(button)
	if err != nil {
		return err
	}
	seconds, _ := cmd.Flags().GetFloat64("duration")

	dev := input.New()
	duration := msDuration(int(seconds * 1000))
	if err := input.Drag(dev, fromX, fromY, toX, toY, btn, duration, timingFromConfig(cfg)); err != nil {
		return err
	}
	return output.Print(output.ActionResult{
		Action: "drag",
		Target: fmt.Sprintf("%d,%d -> %d,%d", fromX, fromY, toX, toY),
		OK:     true,
	})
}
