package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// NewBuildStatusCommand creates the build-status command group.
func NewBuildStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build-status",
		Aliases: []string{"bs"},
		Short:   "Manage commit build statuses",
	}

	cmd.AddCommand(newBuildStatusPostCommand())

	return cmd
}

func newBuildStatusPostCommand() *cobra.Command {
	var (
		key         string
		state       string
		url         string
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "post <hash>",
		Short: "Post a build status for a commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return ErrBuildKeyRequired
			}

			if state == "" {
				return ErrBuildStateRequired
			}

			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			status := &bitbucket.BuildStatus{
				Key:         key,
				State:       state,
				URL:         url,
				Name:        name,
				Description: description,
			}

			err = client.BuildStatuses().Post(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}

			fmt.Printf("Build status %s posted for %s\n", key, args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "build key")
	cmd.Flags().StringVar(&state, "state", "", "build state (INPROGRESS, SUCCESSFUL, FAILED, STOPPED)")
	cmd.Flags().StringVar(&url, "url", "", "build URL")
	cmd.Flags().StringVar(&name, "name", "", "build name")
	cmd.Flags().StringVar(&description, "description", "", "build description")

	return cmd
}
