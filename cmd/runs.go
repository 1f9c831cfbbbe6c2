package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect or clear the publish run ledger",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent runs",
	RunE:  runRunsList,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete one run so its date can be published again",
	RunE:  runRunsDelete,
}

func init() {
	runsListCmd.Flags().Int("limit", 30, "number of runs to show, at most 200 | example: --limit=7")
	runsDeleteCmd.Flags().String("date", "", "run date to delete | example: --date=2026-03-02")
	runsDeleteCmd.Flags().Bool("all", false, "delete every run | example: --all=true")

	runsCmd.AddCommand(runsListCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

func valueOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	runs, err := runsUsecase.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No publish runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tWEEKDAY\tSTATUS\tINSTAGRAM\tFACEBOOK\tUPDATED\tERROR")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			run.RunDate,
			run.Weekday,
			run.Status,
			valueOr(run.PrimaryMediaID, "-"),
			valueOr(run.SecondaryPostID, "-"),
			humanize.Time(run.UpdatedAt),
			valueOr(run.ErrorMessage, ""),
		)
	}
	return w.Flush()
}

func runRunsDelete(cmd *cobra.Command, _ []string) error {
	runDate, _ := cmd.Flags().GetString("date")
	all, _ := cmd.Flags().GetBool("all")

	if all {
		count, err := runsUsecase.DeleteAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %s runs.\n", humanize.Comma(count))
		return nil
	}
	if runDate == "" {
		return errors.New("either --date or --all is required")
	}

	deleted, err := runsUsecase.Delete(cmd.Context(), runDate)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Printf("No run recorded for %s.\n", runDate)
		return nil
	}
	fmt.Printf("Deleted run for %s.\n", runDate)
	return nil
}
