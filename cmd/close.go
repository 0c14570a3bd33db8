package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/output"
)

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Request a window to close",
	Long:  "Send a close request to the targeted window. The application may still prompt to save before exiting.",
	RunE:  runClose,
}

func init() {
	rootCmd.AddCommand(closeCmd)
	addWindowFlags(closeCmd)
}

func runClose(cmd *cobra.Command, args []string) error {
	w, err := resolveWindow(cmd)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("--window or --window-id is required")
	}
	title := w.Title()
	if err := w.Close(); err != nil {
		return err
	}
	return output.Print(output.ActionResult{Action: "close", Target: title, OK: true})
}
