package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewBranchesCommand creates the branches command group.
func NewBranchesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branches",
		Aliases: []string{"branch"},
		Short:   "Manage branches",
		Long:    "List branches of a Bitbucket repository",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List branches",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			branches, err := client.Branches().List(cmd.Context())
			if err != nil {
				return err
			}

			if outputFormat() != OutputFormatTable {
				return renderStructured(branches)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Name", "Target")

			for i := range branches {
				target := notAvailable
				if branches[i].Target != nil {
					target = branches[i].Target.Hash
				}

				_ = table.Append(branches[i].Name, target)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	})

	return cmd
}
