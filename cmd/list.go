package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/output"
	"github.com/deskctl/deskctl/internal/window"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List open windows",
	Long:  "List open windows with their native ID, title, bounds, and active state.",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("all", false, "Include hidden, minimized, and untitled windows")
}

// listedWindow is the slice of the window handle the listing filter
// looks at.
type listedWindow interface {
	Title() string
	IsVisible() bool
}

// listable reports whether a window belongs in listing output.
// Untitled and invisible windows are noise for automation and are
// dropped unless the caller asked for everything.
func listable(w listedWindow, all bool) bool {
	if all {
		return true
	}
	return w.IsVisible() && w.Title() != window.UntitledTitle
}

func runList(cmd *cobra.Command, args []string) error {
	r, err := window.NewResolver()
	if err != nil {
		return err
	}
	windows, err := r.List()
	if err != nil {
		return err
	}

	all, _ := cmd.Flags().GetBool("all")

	result := output.ListResult{TS: time.Now().Unix(), Windows: []output.WindowResult{}}
	for _, w := range windows {
		if !listable(w, all) {
			continue
		}
		entry := output.WindowResult{
			ID:      w.ID(),
			Title:   w.Title(),
			Backend: w.BackendName(),
			Active:  w.IsActive(),
		}
		if box, err := w.BBox(); err == nil {
			entry.BBox = &box
		}
		result.Windows = append(result.Windows, entry)
	}
	return output.Print(result)
}
