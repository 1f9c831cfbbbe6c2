package cmd

import (
	"fmt"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the scheduled carousel for a date right now",
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().String("date", "", "business date to publish, defaults to today | example: --date=2026-03-02")
	publishCmd.Flags().Bool("force", false, "publish even when the date was already processed | example: --force=true")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, _ []string) error {
	runDate, _ := cmd.Flags().GetString("date")
	force, _ := cmd.Flags().GetBool("force")

	ctx, cancel := signalContext()
	defer cancel()

	result, err := publishUsecase.Run(ctx, domainPublish.RunRequest{
		RunDate: runDate,
		Force:   force,
		Mode:    domainPublish.ModeManual,
	})
	if err != nil {
		return err
	}
	if err := printJSON(result); err != nil {
		return err
	}

	if result.Status == domainPublish.StatusFailed && result.ErrorMessage != nil {
		return fmt.Errorf("publish failed for %s: %s", result.RunDate, *result.ErrorMessage)
	}
	return nil
}
