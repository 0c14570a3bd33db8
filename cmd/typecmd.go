package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/input"
	"github.com/deskctl/deskctl/internal/output"
)

var typeCmd = &cobra.Command{
	Use:   "type [text]",
	Short: "Type text or press a key",
	Long: `Type literal text into the focused window, or press a named key
with --key (e.g. Return, tab, ctrl). With --window the window is
focused first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
	addWindowFlags(typeCmd)
	typeCmd.Flags().String("key", "", "Press this key instead of typing text")
}

func runType(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("key")
	var text string
	if len(args) > 0 {
		text = args[0]
	}
	if text == "" && key == "" {
		return fmt.Errorf("text argument or --key is required")
	}
	if text != "" && key != "" {
		return fmt.Errorf("text and --key are mutually exclusive")
	}

	if w, err := resolveWindow(cmd); err != nil {
		return err
	} else if w != nil {
		if err := w.Activate(); err != nil {
			return err
		}
	}

	dev := input.New()
	if key != "" {
		if err := input.Press(dev, key); err != nil {
			return err
		}
		return output.Print(output.ActionResult{Action: "key", Target: key, OK: true})
	}

	if err := dev.TypeText(text); err != nil {
		return err
	}
	target := text
	if len(target) > 32 {
		target = strings.TrimSpace(target[:32]) + "..."
	}
	return output.Print(output.ActionResult{Action: "type", Target: target, OK: true})
}
