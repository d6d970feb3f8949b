package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserAddCommand(ctx))
	return cmd
}

func newUserAddCommand(ctx *commandContext) *cobra.Command {
	var name string
	var password string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			if err := ctx.open(); err != nil {
				return err
			}
			users, err := ctx.userService()
			if err != nil {
				return err
			}

			user, err := users.CreateUser(cmd.Context(), args[0], name, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s) with id %d\n", user.Username, user.Name, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (default username)")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 8 characters")

	return cmd
}
