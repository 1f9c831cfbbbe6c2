package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show the weekday template rotation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		templates, err := templateRepo.List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WEEKDAY\tACTIVE\tSPECIAL\tTITLE\tMEDIA")
		for _, tpl := range templates {
			fmt.Fprintf(w, "%s\t%t\t%t\t%s\t%s\n",
				tpl.Weekday,
				tpl.Active,
				tpl.IsDailySpecial,
				tpl.TitleEN,
				strings.Join(tpl.MediaPaths, ", "),
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
