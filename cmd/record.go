package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/macro"
	"github.com/deskctl/deskctl/internal/output"
)

var recordCmd = &cobra.Command{
	Use:   "record <macro.json>",
	Short: "Record mouse and keyboard input to a macro file",
	Long: `Record input events into a replayable macro script. Recording runs
until interrupted (Ctrl-C), or for --duration seconds.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().Float64("duration", 0, "Stop automatically after this many seconds (0 = until Ctrl-C)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	path := args[0]
	seconds, _ := cmd.Flags().GetFloat64("duration")

	src, err := macro.NewSource()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if seconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, msDuration(int(seconds*1000)))
		defer cancel()
	}

	fmt.Fprintln(os.Stderr, "recording, press Ctrl-C to stop")
	script, err := macro.Record(ctx, src)
	if err != nil {
		return err
	}
	if err := script.Save(path); err != nil {
		return err
	}
	return output.Print(output.ActionResult{
		Action: "record",
		Target: fmt.Sprintf("%s (%d events)", path, len(script.Events)),
		OK:     true,
	})
}
