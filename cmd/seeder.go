package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/user"
	"github.com/spf13/cobra"
)

var (
	seedUsername string
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the first director account",
	Long:  `Create a director account so the user administration API can be reached. Existing usernames are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies(context.Background())
		if err != nil {
			return err
		}
		defer deps.Close()

		created, err := seedDirector(context.Background(), deps.Users, seedUsername, seedPassword)
		if err != nil {
			return err
		}
		if created {
			fmt.Println("Seeded director:", seedUsername)
		} else {
			fmt.Println("User already exists:", seedUsername)
		}
		return nil
	},
}

// seedDirector goes through the user service with a synthetic director session,
// so the account is validated, hashed and audited like any other.
func seedDirector(ctx context.Context, users *user.Service, username, password string) (bool, error) {
	ctx = internal.ContextWithSession(ctx, internal.Session{Username: "seed", Role: internal.RoleDirector})

	_, err := users.CreateUser(ctx, user.CreateUserDTO{
		Username: username,
		Password: password,
		Role:     string(internal.RoleDirector),
	})
	if errors.Is(err, internal.ErrUsernameExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func init() {
	seedCmd.Flags().StringVar(&seedUsername, "username", "director", "username of the director account")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "password of the director account")
	_ = seedCmd.MarkFlagRequired("password")
}
