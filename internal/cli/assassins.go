package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newAssassinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assassins",
		Short: "Browse the assassin roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []AssassinResult
			if err := client.Get("/api/v1/assassins", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a single assassin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AssassinResult
			if err := client.Get("/api/v1/assassins/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	return cmd
}
