package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command. Bitbucket Cloud uses app
// passwords for API access; the secret is prompted without echo and
// stored in the CLI config file.
func NewLoginCommand() *cobra.Command {
	var (
		username    string
		appPassword string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store Bitbucket credentials",
		Long:  "Store a username and app password for authenticated API access",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				username = viper.GetString("username")
			}

			if username == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Username: ")

				input, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("reading username: %w", err)
				}

				username = strings.TrimSpace(input)
			}

			if username == "" {
				return ErrUsernameRequired
			}

			if appPassword == "" {
				fmt.Print("App password: ")

				secretBytes, err := term.ReadPassword(syscall.Stdin)

				fmt.Println()

				if err != nil {
					return fmt.Errorf("reading app password: %w", err)
				}

				appPassword = string(secretBytes)
			}

			if appPassword == "" {
				return ErrAppPasswordRequired
			}

			viper.Set("username", username)
			viper.Set("app_password", appPassword)

			err := viper.WriteConfig()
			if err != nil {
				// First login: there is no config file yet.
				err = viper.SafeWriteConfig()
			}

			if err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Printf("Logged in as %s\n", username)

			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Bitbucket username")
	cmd.Flags().StringVar(&appPassword, "app-password", "", "Bitbucket app password (prompted when omitted)")

	return cmd
}
