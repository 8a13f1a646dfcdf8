package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/picogrid/air-raid-simulation/pkg/logger"
	"github.com/picogrid/air-raid-simulation/pkg/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Work with recorded replays",
}

var replayInspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize a replay file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := replay.SummarizeFile(args[0])
		if err != nil {
			return err
		}

		h := summary.Header
		table := logger.NewTable("Field", "Value")
		table.AddRow("Recorded", h.CreatedAt.Format(time.RFC3339))
		table.AddRow("Seed", fmt.Sprint(h.Seed))
		table.AddRow("Battlefield", fmt.Sprintf("%.0fx%.0f", h.Width, h.Height))
		table.AddRow("Tick rate", fmt.Sprintf("%d Hz", h.TickRate))
		table.AddRow("Settings digest", h.SettingsDigest)
		table.AddRow("Frames", fmt.Sprint(summary.Frames))
		table.AddRow("Ticks", fmt.Sprintf("%d-%d", summary.FirstTick, summary.LastTick))
		table.AddRow("Duration", fmt.Sprintf("%.1fs", summary.Duration))
		table.AddRow("Peak raiders", fmt.Sprint(summary.PeakRaiders))
		table.AddRow("Peak score", fmt.Sprint(summary.PeakScore))
		table.AddRow("Final score", fmt.Sprint(summary.FinalScore))
		table.Fprint(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	replayCmd.AddCommand(replayInspectCmd)
}
