package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/session"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user roles (admin only)",
	}
	cmd.AddCommand(
		newUsersListCmd(),
		newUsersSetRoleCmd(),
		newUsersDeleteCmd(),
	)
	return cmd
}

// requireAdmin signs in and checks the principal may manage users.
func requireAdmin(ctx context.Context) (session.Principal, error) {
	p, err := requireSession(ctx)
	if err != nil {
		return p, err
	}
	if !access.CanManageUsers(p.Role) {
		return p, userError(access.ErrForbidden)
	}
	return p, nil
}

// findUser matches ref against user ids and emails.
func findUser(ref string) (session.Principal, error) {
	for _, u := range state.Users() {
		if u.ID == ref || strings.EqualFold(u.Email, ref) {
			return u, nil
		}
	}
	return session.Principal{}, fmt.Errorf("user %q not found", ref)
}

func newUsersListCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users with role statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			self, err := requireAdmin(cmd.Context())
			if err != nil {
				return err
			}
			users := state.Users()
			if jsonOut {
				return printJSON(users)
			}

			counts := state.RoleCounts()
			parts := make([]string, 0, len(access.Roles()))
			for _, r := range access.Roles() {
				parts = append(parts, fmt.Sprintf("%s %d", r, counts[r]))
			}
			header("%d user(s): %s", len(users), strings.Join(parts, ", "))
			for _, u := range users {
				mark := ""
				if u.ID == self.ID {
					mark = color.HiBlackString(" (you)")
				}
				fmt.Printf("  %-28s  %-20s  %s%s\n",
					color.WhiteString(u.Email), u.Name, color.CyanString(u.Role.String()), mark)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newUsersSetRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <id|email> <admin|manager|user>",
		Short: "Change another user's role",
		Long: `Change another user's role. Administrators cannot change their own role.

Examples:
  shelfshop users set-role user@bookstore.com manager`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeRoles,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := access.ParseRole(args[1])
			if err != nil {
				return err
			}
			if _, err := requireAdmin(cmd.Context()); err != nil {
				return err
			}
			u, err := findUser(args[0])
			if err != nil {
				return err
			}
			if err := state.SetUserRole(cmd.Context(), u.ID, role); err != nil {
				return userError(err)
			}
			ok("%s is now %s", u.Email, role)
			return nil
		},
	}
}

func newUsersDeleteCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "delete <id|email>",
		Short: "Delete another user's profile",
		Long: `Delete a user's profile document. The sign-in account itself stays
with the identity provider.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(cmd.Context()); err != nil {
				return err
			}
			u, err := findUser(args[0])
			if err != nil {
				return err
			}
			if !skipConfirm && !confirm(color.RedString("Delete %s?", u.Email)) {
				return fmt.Errorf("aborted (use --yes to skip confirmation)")
			}
			if err := state.DeleteUser(cmd.Context(), u.ID); err != nil {
				return userError(err)
			}
			ok("Deleted %s", u.Email)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}
