package main

import (
	"log/slog"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/opryshko/bakehouse/internal/domain/user"
	"github.com/opryshko/bakehouse/internal/storage/postgres"
)

func createAdminCmd(databaseURL *string) *cobra.Command {
	var firstName, lastName, phone string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an approved admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if phone == "" {
				return errors.New("--phone is required")
			}

			pool, err := connect(cmd.Context(), *databaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			u := &user.User{
				FirstName: firstName,
				LastName:  lastName,
				Phone:     phone,
				Approved:  true,
				Admin:     true,
			}
			if err := postgres.NewUserRepository(pool).Create(cmd.Context(), u); err != nil {
				if errors.Is(err, user.ErrPhoneTaken) {
					return errors.Errorf("phone %s is already registered", phone)
				}
				return errors.Wrap(err, "create admin")
			}

			slog.Info("created admin", slog.Int64("id", u.ID), slog.String("phone", u.Phone))
			return nil
		},
	}
	cmd.Flags().StringVar(&firstName, "first", "Admin", "first name")
	cmd.Flags().StringVar(&lastName, "last", "Admin", "last name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number (login key)")
	return cmd
}

func approveUserCmd(databaseURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "approve-user <id>",
		Short: "Approve a pending registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return errors.Errorf("invalid user id %q", args[0])
			}

			pool, err := connect(cmd.Context(), *databaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.NewUserRepository(pool).Approve(cmd.Context(), id); err != nil {
				if errors.Is(err, user.ErrNotFound) {
					return errors.Errorf("no user with id %d", id)
				}
				return errors.Wrap(err, "approve user")
			}

			slog.Info("approved user", slog.Int64("id", id))
			return nil
		},
	}
}
