package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/input"
	"github.com/deskctl/deskctl/internal/output"
)

var scrollCmd = &cobra.Command{
	Use:   "scroll",
	Short: "Scroll the mouse wheel",
	Long:  "Dispatch wheel clicks. Positive --dy scrolls down, positive --dx scrolls right. With --x/--y the pointer moves there first.",
	RunE:  runScroll,
}

func init() {
	rootCmd.AddCommand(scrollCmd)
	scrollCmd.Flags().Int("dx", 0, "Horizontal wheel clicks (positive = right)")
	scrollCmd.Flags().Int("dy", 0, "Vertical wheel clicks (positive = down)")
	scrollCmd.Flags().IntP("x", "x", 0, "Move the pointer to X before scrolling")
	scrollCmd.Flags().IntP("y", "y", 0, "Move the pointer to Y before scrolling")
}

func runScroll(cmd *cobra.Command, args []string) error {
	dx, _ := cmd.Flags().GetInt("dx")
	dy, _ := cmd.Flags().GetInt("dy")
	if dx == 0 && dy == 0 {
		return fmt.Errorf("--dx or --dy is required")
	}

	dev := input.New()
	if cmd.Flags().Changed("x") && cmd.Flags().Changed("y") {
		x, _ := cmd.Flags().GetInt("x")
		y, _ := cmd.Flags().GetInt("y")
		if err := dev.Move(x, y); err != nil {
			return err
		}
	}

	if err := input.Scroll(dev, dx, dy, timingFromConfig(cfg)); err != nil {
		return err
	}
	return output.Print(output.ActionResult{
		Action: "scroll",
		Target: fmt.Sprintf("dx=%d dy=%d", dx, dy),
		OK:     true,
	})
}
