package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/output"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Bring a window to the foreground",
	RunE:  runFocus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
	addWindowFlags(focusCmd)
}

func runFocus(cmd *cobra.Command, args []string) error {
	w, err := resolveWindow(cmd)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("--window or --window-id is required")
	}
	if err := w.Activate(); err != nil {
		return err
	}
	return output.Print(output.ActionResult{Action: "focus", Target: w.Title(), OK: true})
}
