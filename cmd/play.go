package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/input"
	"github.com/deskctl/deskctl/internal/macro"
	"github.com/deskctl/deskctl/internal/output"
)

var playCmd = &cobra.Command{
	Use:   "play <macro.json>",
	Short: "Replay a recorded macro",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Float64("speed", 1.0, "Playback speed factor (2 = twice as fast)")
	playCmd.Flags().Int("repeat", 1, "Number of times to replay the macro")
}

func runPlay(cmd *cobra.Command, args []string) error {
	script, err := macro.Load(args[0])
	if err != nil {
		return err
	}
	speed, _ := cmd.Flags().GetFloat64("speed")
	repeat, _ := cmd.Flags().GetInt("repeat")
	if repeat < 1 {
		repeat = 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dev := input.New()
	for i := 0; i < repeat; i++ {
		if err := macro.Play(ctx, dev, script, speed); err != nil {
			return err
		}
	}
	return output.Print(output.ActionResult{
		Action: "play",
		Target: fmt.Sprintf("%s x%d", args[0], repeat),
		OK:     true,
	})
}
