package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewPullRequestsCommand creates the prs command group.
func NewPullRequestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prs",
		Aliases: []string{"pr", "pullrequests"},
		Short:   "Manage pull requests",
		Long:    "List and inspect pull requests of a Bitbucket repository",
	}

	cmd.AddCommand(newPRsListCommand())
	cmd.AddCommand(newPRsShowCommand())
	cmd.AddCommand(newPRsSourceHashCommand())

	return cmd
}

func newPRsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open pull requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			pullRequests, err := client.PullRequests().List(cmd.Context())
			if err != nil {
				return err
			}

			if outputFormat() != OutputFormatTable {
				return renderStructured(pullRequests)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Title", "State", "Source", "Destination")

			for i := range pullRequests {
				source := notAvailable
				if pullRequests[i].Source != nil && pullRequests[i].Source.Branch != nil {
					source = pullRequests[i].Source.Branch.Name
				}

				destination := notAvailable
				if pullRequests[i].Destination != nil && pullRequests[i].Destination.Branch != nil {
					destination = pullRequests[i].Destination.Branch.Name
				}

				_ = table.Append(
					strconv.Itoa(pullRequests[i].ID),
					pullRequests[i].Title,
					pullRequests[i].State,
					source,
					destination,
				)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newPRsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pull request id %q: %w", args[0], err)
			}

			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			pullRequest, err := client.PullRequests().Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			return renderStructured(pullRequest)
		},
	}
}

func newPRsSourceHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "source-hash <id>",
		Short: "Print the full hash of a pull request's source commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pull request id %q: %w", args[0], err)
			}

			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			hash, err := client.PullRequests().ResolveSourceHash(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Println(hash)

			return nil
		},
	}
}
