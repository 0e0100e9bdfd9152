package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Create, inspect, and join game sessions",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionSelectCmd())

	return cmd
}

func sessionPath(name string) string {
	return "/api/v1/sessions/" + url.PathEscape(name)
}

func newSessionCreateCmd() *cobra.Command {
	var (
		maxPlayers    int
		gameType      string
		gameRounds    string
		turnTimeLimit int
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"game_name":   args[0],
				"max_players": maxPlayers,
			}
			if gameType != "" {
				body["game_type"] = gameType
			}
			if gameRounds != "" {
				body["game_rounds"] = gameRounds
			}
			if turnTimeLimit > 0 {
				body["turn_time_limit"] = turnTimeLimit
			}

			var result SessionResult
			if err := client.Post("/api/v1/sessions", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&maxPlayers, "max-players", "m", 0, "Maximum player count, 2-5 (required)")
	cmd.Flags().StringVar(&gameType, "game-type", "", "Game type (default Beginner)")
	cmd.Flags().StringVar(&gameRounds, "game-rounds", "", "Rounds format (default Best of 1)")
	cmd.Flags().IntVar(&turnTimeLimit, "turn-limit", 0, "Turn time limit in seconds (default 60)")
	_ = cmd.MarkFlagRequired("max-players")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionResult
			if err := client.Get(sessionPath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionJoinCmd() *cobra.Command {
	var accessKey string

	cmd := &cobra.Command{
		Use:   "join <name>",
		Short: "Join a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"access_key": accessKey}

			var result SessionResult
			if err := client.Post(sessionPath(args[0])+"/join", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&accessKey, "key", "k", "", "Session access key (required)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newSessionSelectCmd() *cobra.Command {
	var accessKey string

	cmd := &cobra.Command{
		Use:   "select <name> <assassin-id>",
		Short: "Select an assassin, joining the session if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"assassin_id": args[1],
				"access_key":  accessKey,
			}

			var result SessionResult
			if err := client.Post(sessionPath(args[0])+"/assassin", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&accessKey, "key", "k", "", "Session access key (required)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
