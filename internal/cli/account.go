package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts and authentication",
	}

	cmd.AddCommand(newAccountCreateCmd())
	cmd.AddCommand(newAccountLoginCmd())
	cmd.AddCommand(newAccountLogoutCmd())
	cmd.AddCommand(newAccountMeCmd())
	cmd.AddCommand(newAccountResetCmd())

	return cmd
}

func newAccountCreateCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"email":    email,
				"password": password,
			}

			var result AuthResult
			if err := client.Post("/api/v1/accounts", body, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAccountLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"email":    email,
				"password": password,
			}

			var result AuthResult
			if err := client.Post("/api/v1/accounts/login", body, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAccountLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/accounts/logout", nil, nil); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return err
			}

			fmt.Println("Signed out")
			return nil
		},
	}
}

func newAccountMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AccountResult
			if err := client.Get("/api/v1/accounts/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAccountResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Password reset flow",
	}

	var email string
	requestCmd := &cobra.Command{
		Use:   "request",
		Short: "Request a password reset token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ResetResult
			if err := client.Post("/api/v1/accounts/password-reset", map[string]string{"email": email}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
	requestCmd.Flags().StringVarP(&email, "email", "e", "", "Email address (required)")
	_ = requestCmd.MarkFlagRequired("email")

	var token, newPassword string
	confirmCmd := &cobra.Command{
		Use:   "confirm",
		Short: "Redeem a reset token and set a new password",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"token":        token,
				"new_password": newPassword,
			}

			if err := client.Post("/api/v1/accounts/password-reset/confirm", body, nil); err != nil {
				return err
			}

			fmt.Println("Password updated")
			return nil
		},
	}
	confirmCmd.Flags().StringVarP(&token, "reset-token", "t", "", "Reset token (required)")
	confirmCmd.Flags().StringVarP(&newPassword, "new-password", "n", "", "New password (required)")
	_ = confirmCmd.MarkFlagRequired("reset-token")
	_ = confirmCmd.MarkFlagRequired("new-password")

	cmd.AddCommand(requestCmd)
	cmd.AddCommand(confirmCmd)

	return cmd
}
