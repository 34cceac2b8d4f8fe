package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/muhammadafham46/Business-Nexus/internal/auth"
	"github.com/muhammadafham46/Business-Nexus/internal/cache"
	"github.com/muhammadafham46/Business-Nexus/internal/config"
	"github.com/muhammadafham46/Business-Nexus/internal/events"
	"github.com/muhammadafham46/Business-Nexus/internal/factory"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
	"github.com/muhammadafham46/Business-Nexus/internal/repository/sqlite"
	"github.com/muhammadafham46/Business-Nexus/internal/seed"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch c.cfg.StorageDriver {
			case config.DriverPostgres:
				repo, err := repository.New(ctx, c.cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer repo.Close()

				applied, err := repo.Migrate(ctx)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(out, "schema up to date")
					return nil
				}
				for _, v := range applied {
					fmt.Fprintf(out, "applied %s\n", v)
				}
				return nil

			case config.DriverSQLite:
				store, err := sqlite.New(ctx, c.cfg.SQLitePath)
				if err != nil {
					return err
				}
				defer store.Close()
				fmt.Fprintf(out, "sqlite schema ready at %s\n", c.cfg.SQLitePath)
				return nil

			default:
				return fmt.Errorf("nothing to migrate for the %s driver", c.cfg.StorageDriver)
			}
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample investors, entrepreneurs and conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if c.cfg.StorageDriver == config.DriverMemory {
				return errors.New("seeding the memory driver has no lasting effect; use SEED_ON_START=true instead")
			}

			store, err := factory.NewStore(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := seed.Run(ctx, store, auth.NewHasher(auth.DefaultParams))
			if errors.Is(err, seed.ErrAlreadySeeded) {
				fmt.Fprintln(out, "already seeded")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "seeded %d users, %d collaboration requests, %d messages, %d connections\n",
				len(res.Users), len(res.Requests), len(res.Messages), len(res.Connections))
			fmt.Fprintf(out, "every sample account uses the password %q\n", seed.DefaultPassword)
			return nil
		},
	}
}

func (c *cli) hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password PASSWORD",
		Short: "Print the Argon2id hash of a password",
		Args:  cobra.ExactArgs(1),
		// Needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func (c *cli) usersCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if c.cfg.StorageDriver == config.DriverMemory {
				return errors.New("the memory driver has no users outside the running server")
			}

			store, err := factory.NewStore(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			var users []*model.User
			if role == "" {
				users, err = store.ListUsers(ctx)
			} else {
				r := model.Role(role)
				if !r.IsValid() {
					return fmt.Errorf("--role must be investor or entrepreneur, got %q", role)
				}
				users, err = store.ListUsersByRole(ctx, r)
			}
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tCOMPANY\tJOINED")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					u.ID, u.Email, u.FullName(), u.Role, deref(u.Company), u.CreatedAt.Format(time.DateOnly))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "Filter by role (investor or entrepreneur)")
	return cmd
}

func (c *cli) eventsCmd() *cobra.Command {
	var count int64

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the most recent activity events from Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if c.cfg.RedisURL == "" {
				return errors.New("REDIS_URL is required to read activity events")
			}

			cacheClient, err := cache.New(ctx, c.cfg.RedisURL)
			if err != nil {
				return err
			}
			defer cacheClient.Close()

			recent, err := events.NewRedisPublisher(cacheClient.Client(), c.logger).Recent(ctx, count)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tTYPE\tACTOR\tSUBJECT\tATTRS")
			for _, e := range recent {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
					time.UnixMilli(e.OccurredAt).UTC().Format(time.RFC3339), e.Type, e.ActorID, e.SubjectID, formatAttrs(e.Attrs))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int64VarP(&count, "count", "n", 20, "Number of events to show")
	return cmd
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func formatAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(attrs))
	for k, v := range attrs {
		parts = append(parts, k+"="+v)
	}
	slices.Sort(parts)
	return strings.Join(parts, ",")
}
