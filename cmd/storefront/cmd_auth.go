package main

import (
	"fmt"

	"github.com/blissbyuddy/storefront-client/internal/auth"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in and merge the guest cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			err = a.session.Login(cmd.Context(), auth.LoginInput{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if account := a.session.Account(); account != nil {
				fmt.Fprintf(out, "Signed in as %s.\n", account.Email)
			} else {
				fmt.Fprintln(out, "Signed in.")
			}
			if msg := a.cart.Err(); msg != "" {
				fmt.Fprintln(out, msg)
			}
			return nil
		},
	}
	login.Flags().StringVar(&email, "email", "", "account email")
	login.Flags().StringVar(&password, "password", "", "account password")
	login.MarkFlagRequired("email")
	login.MarkFlagRequired("password")
	return login
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and return to the guest cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			a.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
