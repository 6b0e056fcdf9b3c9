package commands

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewTeamCommand creates the team command group.
func NewTeamCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Inspect the configured team",
	}

	cmd.AddCommand(newTeamShowCommand())

	return cmd
}

func newTeamShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the team behind the configured owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), false)
			if err != nil {
				return err
			}

			team, err := client.Teams().Get(cmd.Context())
			if err != nil {
				return err
			}

			if team == nil {
				return ErrTeamNotFound
			}

			if outputFormat() != OutputFormatTable {
				return renderStructured(team)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("Username", team.Username)
			_ = table.Append("Display Name", team.DisplayName)
			_ = table.Append("UUID", team.UUID)

			return table.Render()
		},
	}
}
