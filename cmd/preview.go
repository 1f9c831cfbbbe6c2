package cmd

import (
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the payload that would be published for a date",
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().String("date", "", "business date, defaults to today | example: --date=2026-03-07")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	runDate, _ := cmd.Flags().GetString("date")

	preview, err := previewUsecase.Preview(cmd.Context(), runDate)
	if err != nil {
		return err
	}
	return printJSON(preview)
}
