package command

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"aniverse/internal/microservices/http-api/models"
	"aniverse/internal/microservices/http-api/repository"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// RoleStore is the slice of the user repository the role commands need.
type RoleStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	SetRoles(ctx context.Context, username string, roles []string) error
}

var knownRoles = []string{models.RoleAdmin, models.RoleModerator}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Show, grant and revoke staff roles",
	Long:  `Staff roles gate catalog writes. Valid roles: admin, moderator.`,
}

var showRolesCmd = &cobra.Command{
	Use:   "show [username]",
	Short: "Print the roles of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showRoles(cmd.Context(), repository.NewUserRepository(db), cmd.OutOrStdout(), args[0])
	},
}

var grantRoleCmd = &cobra.Command{
	Use:   "grant [username] [role]",
	Short: "Give a user a staff role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, err := grantRole(cmd.Context(), repository.NewUserRepository(db), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], formatRoles(roles))
		return nil
	},
}

var revokeRoleCmd = &cobra.Command{
	Use:   "revoke [username] [role]",
	Short: "Take a staff role away from a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, err := revokeRole(cmd.Context(), repository.NewUserRepository(db), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], formatRoles(roles))
		return nil
	},
}

func init() {
	rolesCmd.AddCommand(showRolesCmd)
	rolesCmd.AddCommand(grantRoleCmd)
	rolesCmd.AddCommand(revokeRoleCmd)
}

func showRoles(ctx context.Context, store RoleStore, out io.Writer, username string) error {
	user, err := store.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to find user %q: %w", username, err)
	}
	_, err = fmt.Fprintf(out, "%s: %s\n", user.Username, formatRoles(user.Roles))
	return err
}

// grantRole is idempotent; granting a role the user holds is not an error.
func grantRole(ctx context.Context, store RoleStore, username, role string) ([]string, error) {
	if !slices.Contains(knownRoles, role) {
		return nil, fmt.Errorf("unknown role %q (valid: %s)", role, strings.Join(knownRoles, ", "))
	}
	user, err := store.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %q: %w", username, err)
	}

	roles := []string(user.Roles)
	if slices.Contains(roles, role) {
		return roles, nil
	}
	roles = append(slices.Clone(roles), role)
	slices.Sort(roles)
	if err := store.SetRoles(ctx, username, roles); err != nil {
		return nil, fmt.Errorf("failed to update roles: %w", err)
	}
	return roles, nil
}

func revokeRole(ctx context.Context, store RoleStore, username, role string) ([]string, error) {
	user, err := store.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %q: %w", username, err)
	}

	roles := slices.DeleteFunc(slices.Clone([]string(user.Roles)), func(r string) bool { return r == role })
	if len(roles) == len(user.Roles) {
		return roles, nil
	}
	if err := store.SetRoles(ctx, username, roles); err != nil {
		return nil, fmt.Errorf("failed to update roles: %w", err)
	}
	return roles, nil
}

func formatRoles(roles []string) string {
	if len(roles) == 0 {
		return "(member)"
	}
	return color.CyanString(strings.Join(roles, ", "))
}
