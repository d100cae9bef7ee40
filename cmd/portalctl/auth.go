package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdpi/member-portal/pkg/portalclient"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Long: `Sign in with email and password. The password may also be given in
the PORTAL_PASSWORD environment variable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("PORTAL_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			user, err := a.client.Login(cmd.Context(), portalclient.Credentials{Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and delete the local copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// A stale session is still worth revoking and deleting.
			_, _ = a.client.Restore(cmd.Context())
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account and its permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.restore(cmd.Context()); err != nil {
				return err
			}
			user := a.client.Session().User()
			if !offline {
				fresh, err := a.client.Profile(cmd.Context())
				if err != nil {
					return err
				}
				user = fresh
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:    %s\n", user.Name)
			fmt.Fprintf(out, "Email:   %s\n", user.Email)
			fmt.Fprintf(out, "Role:    %s\n", user.Role)
			if user.MemberID != "" {
				fmt.Fprintf(out, "Member:  %s\n", user.MemberID)
			}
			perms := make([]string, 0)
			for _, p := range user.Role.Permissions() {
				perms = append(perms, string(p))
			}
			fmt.Fprintf(out, "Access:  %s\n", strings.Join(perms, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "print the saved session without calling the API")
	return cmd
}

func newRefreshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new token pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.restore(cmd.Context()); err != nil {
				return err
			}
			if _, err := a.client.Refresh(cmd.Context()); err != nil {
				return err
			}
			exp := a.client.Session().State().ExpiresAt
			fmt.Fprintf(cmd.OutOrStdout(), "Token refreshed, valid until %s\n", exp.Local().Format(time.RFC1123))
			return nil
		},
	}
}
