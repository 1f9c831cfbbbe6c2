package cmd

import (
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage the stored Meta access tokens",
}

var tokensRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the Instagram token for a new long-lived one and derive the page token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		result, err := tokenUsecase.Refresh(ctx)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	tokensCmd.AddCommand(tokensRefreshCmd)
	rootCmd.AddCommand(tokensCmd)
}
