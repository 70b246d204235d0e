package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) credentials(cmd *cobra.Command) (string, string, error) {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")

	var err error
	if username == "" {
		if username, err = a.readLine("username: "); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = a.readLine("password: "); err != nil {
			return "", "", err
		}
	}
	return username, password, nil
}

func credentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("username", "u", "", "account name")
	cmd.Flags().StringP("password", "p", "", "password, read from stdin when omitted")
}

func (a *app) loginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, password, err := a.credentials(cmd)
			if err != nil {
				return err
			}
			if err := a.api.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			a.printf("logged in as %s\n", username)
			return nil
		},
	}
	credentialFlags(cmd)
	return cmd
}

func (a *app) registerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, password, err := a.credentials(cmd)
			if err != nil {
				return err
			}
			if err := a.api.Register(cmd.Context(), username, password); err != nil {
				return err
			}
			a.printf("registered %s\n", username)
			return nil
		},
	}
	credentialFlags(cmd)
	return cmd
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.api.Logout(); err != nil {
				return err
			}
			a.printf("logged out\n")
			return nil
		},
	}
}
