// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/users"
)

func newSetRoleCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <email> <role>",
		Short: "Assign a role to a user",
		Long:  "Assign the named role (case insensitive) to the user with the given email address.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, role := args[0], args[1]
			return c.withStore(cmd, func(ctx context.Context, store database.Store) error {
				user, err := users.NewService(store, c.cfg.Security).SetRole(ctx, email, role)
				switch {
				case errors.Is(err, users.ErrRoleNotFound):
					return fmt.Errorf("role %s does not exist; run seed or create it first", role)
				case errors.Is(err, database.ErrNotFound):
					return fmt.Errorf("no user with email %s", email)
				case err != nil:
					return err
				}
				cmd.Printf("%s now has role %s\n", user.Email, strings.ToUpper(strings.TrimSpace(role)))
				return nil
			})
		},
	}
}
