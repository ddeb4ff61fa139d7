// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/volunteerhub/internal/config"
	"github.com/tomtom215/volunteerhub/internal/database"
	"github.com/tomtom215/volunteerhub/internal/logging"
)

// BuildVersion is set at link time.
var BuildVersion = "dev"

const closeTimeout = 5 * time.Second

type deps struct {
	load func() (*config.Config, error)
	open func(context.Context, config.DatabaseConfig) (database.Store, error)
}

// cli carries state shared by every subcommand.
type cli struct {
	deps
	cfg    *config.Config
	driver string
}

func newRootCommand(d deps) *cobra.Command {
	c := &cli{deps: d}

	root := &cobra.Command{
		Use:          "volunteerctl",
		Short:        "VolunteerHub administration CLI",
		Long:         "Administrative tasks for VolunteerHub: seeding authorization data and assigning roles.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if c.driver != "" {
				cfg.Database.Driver = c.driver
			}
			logging.Init(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Caller: cfg.Logging.Caller,
			})
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.driver, "driver", "", "Database driver override (mongo, memory). Defaults to DATABASE_DRIVER.")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number of volunteerctl",
			Args:  cobra.NoArgs,
			// Skip configuration loading.
			PersistentPreRun: func(*cobra.Command, []string) {},
			Run: func(cmd *cobra.Command, _ []string) {
				cmd.Printf("%s\n", BuildVersion)
			},
		},
		newSeedCommand(c),
		newSetRoleCommand(c),
	)
	return root
}

// withStore opens the configured store, runs fn and closes the store.
func (c *cli) withStore(cmd *cobra.Command, fn func(context.Context, database.Store) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := c.open(ctx, c.cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if closeErr := store.Close(closeCtx); closeErr != nil {
			cmd.PrintErrf("warning: failed to close database cleanly: %v\n", closeErr)
		}
	}()
	return fn(ctx, store)
}
