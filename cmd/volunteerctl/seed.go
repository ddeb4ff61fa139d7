// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/volunteerhub/internal/api"
	"github.com/tomtom215/volunteerhub/internal/authz"
	"github.com/tomtom215/volunteerhub/internal/database"
)

func newSeedCommand(c *cli) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Sync the permission catalog and grant every permission to the superadmin role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if role == "" {
				role = c.cfg.Security.SuperadminRole
			}
			return c.withStore(cmd, func(ctx context.Context, store database.Store) error {
				if err := store.EnsureIndexes(ctx); err != nil {
					return fmt.Errorf("ensure indexes: %w", err)
				}
				created, err := authz.SyncCatalog(ctx, store, api.Endpoints())
				if err != nil {
					return fmt.Errorf("sync permission catalog: %w", err)
				}
				granted, err := authz.GrantAll(ctx, store, role)
				if err != nil {
					return fmt.Errorf("grant %s: %w", role, err)
				}
				cmd.Printf("Created %d permission(s)\n", created)
				cmd.Printf("Role %s holds %d permission(s)\n", granted.Name, len(granted.Permissions))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Role to grant every permission to. Defaults to the configured superadmin role.")
	return cmd
}
