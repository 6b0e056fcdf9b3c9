package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// NewWebhooksCommand creates the hooks command group.
func NewWebhooksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hooks",
		Aliases: []string{"hook", "webhooks"},
		Short:   "Manage webhooks",
		Long:    "List, register, and remove repository webhooks",
	}

	cmd.AddCommand(newHooksListCommand())
	cmd.AddCommand(newHooksCreateCommand())
	cmd.AddCommand(newHooksDeleteCommand())

	return cmd
}

func newHooksListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			hooks, err := client.Webhooks().List(cmd.Context())
			if err != nil {
				return err
			}

			if outputFormat() != OutputFormatTable {
				return renderStructured(hooks)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("UUID", "URL", "Active", "Events")

			for i := range hooks {
				_ = table.Append(
					hooks[i].UUID,
					hooks[i].URL,
					fmt.Sprintf("%t", hooks[i].Active),
					strings.Join(hooks[i].Events, ", "),
				)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newHooksCreateCommand() *cobra.Command {
	var (
		url         string
		description string
		events      []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return ErrWebhookURLRequired
			}

			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			hook := &bitbucket.Webhook{
				URL:         url,
				Description: description,
				Active:      true,
				Events:      events,
			}

			err = client.Webhooks().Register(cmd.Context(), hook)
			if err != nil {
				return err
			}

			fmt.Println("Webhook registered")

			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "webhook target URL")
	cmd.Flags().StringVar(&description, "description", "", "webhook description")
	cmd.Flags().StringSliceVar(&events, "event", []string{"repo:push"}, "events to subscribe to")

	return cmd
}

func newHooksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <uuid>",
		Short: "Remove a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			err = client.Webhooks().Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println("Webhook removed")

			return nil
		},
	}
}
