package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Evaluate the schedule window once and publish when it is open",
	Long:  `Meant for an external scheduler calling it every few minutes. Outside the posting hour it only reports the decision.`,
	RunE:  runCron,
}

func init() {
	rootCmd.AddCommand(cronCmd)
}

func runCron(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	tick, err := scheduleUsecase.Tick(ctx)
	if err != nil {
		logrus.WithError(err).Error("[SCHEDULER] Failed to run scheduled publish")
		return err
	}
	return printJSON(tick)
}
