package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/skovert/folio/pkg/auth"
)

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Admin account utilities",
	}

	cmd.AddCommand(c.authHashCommand())

	return cmd
}

func (c *CLI) authHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Generate a password hash for the config file",
		Long: `Prompt for a password and print its bcrypt hash.

Put the hash in the [auth] section of the config file, or in the
FOLIO_ADMIN_PASSWORD_HASH environment variable:

  [auth]
  email = "you@example.com"
  password_hash = "$2a$10$..."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(os.Stderr, "Password: ")
			password, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stderr, "Repeat: ")
			repeat, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}
			if string(password) != string(repeat) {
				printError("Passwords do not match")
				return fmt.Errorf("passwords do not match")
			}

			hash, err := auth.HashPassword(string(password))
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}
