package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// NewReposCommand creates the repos command group.
func NewReposCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repos",
		Aliases: []string{"repo", "repositories"},
		Short:   "Manage repositories",
		Long:    "List and inspect Bitbucket repositories",
	}

	cmd.AddCommand(newReposListCommand())
	cmd.AddCommand(newReposGetCommand())
	cmd.AddCommand(newReposDefaultBranchCommand())

	return cmd
}

func newReposListCommand() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List repositories of the owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), false)
			if err != nil {
				return err
			}

			repos, err := client.Repositories().List(cmd.Context(), bitbucket.UserRole(role))
			if err != nil {
				return err
			}

			if outputFormat() != OutputFormatTable {
				return renderStructured(repos)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Name", "Private", "Main Branch", "Updated")

			for i := range repos {
				mainBranch := notAvailable
				if repos[i].MainBranch != nil {
					mainBranch = repos[i].MainBranch.Name
				}

				_ = table.Append(
					repos[i].Name(),
					fmt.Sprintf("%t", repos[i].IsPrivate),
					mainBranch,
					repos[i].UpdatedOn.Format("2006-01-02"),
				)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "filter by role (owner, admin, contributor, member)")

	return cmd
}

func newReposGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the configured repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			repo, err := client.Repositories().Get(cmd.Context())
			if err != nil {
				return err
			}

			if outputFormat() != OutputFormatTable {
				return renderStructured(repo)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")

			mainBranch := notAvailable
			if repo.MainBranch != nil {
				mainBranch = repo.MainBranch.Name
			}

			_ = table.Append("Full Name", repo.FullName)
			_ = table.Append("UUID", repo.UUID)
			_ = table.Append("SCM", repo.SCM)
			_ = table.Append("Private", fmt.Sprintf("%t", repo.IsPrivate))
			_ = table.Append("Main Branch", mainBranch)
			_ = table.Append("Description", repo.Description)

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newReposDefaultBranchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "default-branch",
		Short: "Print the repository's default branch",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			branch, err := client.Repositories().DefaultBranch(cmd.Context())
			if err != nil {
				return err
			}

			if branch == "" {
				fmt.Println(notAvailable)

				return nil
			}

			fmt.Println(branch)

			return nil
		},
	}
}
