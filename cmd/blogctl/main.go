// Command blogctl runs operator tasks against the blog database.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/example/blog/internal/config"
	"github.com/example/blog/internal/db"
	"github.com/example/blog/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "blogctl",
		Short:        "Operator commands for the blog",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			_ = godotenv.Load()
		},
	}
	root.AddCommand(newMigrateCmd(), newCreateUserCmd(), newPublishCmd())
	return root
}

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func withDB(fn func(*db.Database) error) error {
	database, err := db.Connect(config.Load())
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer database.Close()
	return fn(database)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users and posts tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(func(database *db.Database) error {
				if err := database.Migrate(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func newCreateUserCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a user who can log in and write posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(func(database *db.Database) error {
				// sessions are not needed to create accounts
				auth := service.NewAuthService(database, nil, logger())
				u, err := auth.CreateUser(cmd.Context(), username, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", u.Username, u.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish ID",
		Short: "Mark a post as published now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			return withDB(func(database *db.Database) error {
				at, err := service.NewPostService(database, logger()).PublishPost(cmd.Context(), uint(id))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "post %d published at %s\n", id, at.Format("2006-01-02 15:04:05"))
				return nil
			})
		},
	}
}
