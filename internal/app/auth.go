package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfshop/internal/session"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and keep the session for later commands",
		Long: `Sign in to the bookstore.

The password is read from SHELFSHOP_PASSWORD or prompted for. With the
firebase backend the session is saved in the state directory and later
commands reuse it. The memory backend lives only as long as one process;
pass --email to each command instead.

Examples:
  shelfshop login manager@bookstore.com
  SHELFSHOP_PASSWORD=manager123 shelfshop login manager@bookstore.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := accountEmail()
			if len(args) == 1 {
				email = args[0]
			}
			if email == "" {
				var err error
				if email, err = prompt("Email: "); err != nil {
					return err
				}
			}
			password, err := readPassword()
			if err != nil {
				return err
			}
			p, err := state.Login(cmd.Context(), email, password)
			if err != nil {
				return userError(err)
			}
			ok("Signed in as %s (%s)", p.Name, p.Role)
			reportOffline()
			return nil
		},
	}
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account and sign in",
		Long: `Create a customer account. New accounts always get the user role;
an administrator can promote them later.

Examples:
  shelfshop register reader@example.com --name "Anna"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				var err error
				if name, err = prompt("Name: "); err != nil {
					return err
				}
			}
			password, err := readPassword()
			if err != nil {
				return err
			}
			p, err := state.Register(cmd.Context(), args[0], password, name)
			if err != nil {
				return userError(err)
			}
			ok("Account created for %s", p.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.Start(cmd.Context()); err != nil {
				warn("%v", userError(err))
			}
			if state.Session.Status() != session.StatusSignedIn {
				fmt.Println("Not signed in.")
				return nil
			}
			if err := state.Logout(cmd.Context()); err != nil {
				return userError(err)
			}
			ok("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := requireSession(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(p)
			}
			printField("name", p.Name)
			printField("email", p.Email)
			printField("role", p.Role.String())
			printField("id", p.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
