package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewSrcCommand creates the src command group.
func NewSrcCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "src",
		Short: "Browse repository source",
		Long:  "List directories, print file contents, and test path existence at a ref",
	}

	cmd.AddCommand(newSrcListCommand())
	cmd.AddCommand(newSrcCatCommand())
	cmd.AddCommand(newSrcExistsCommand())

	return cmd
}

func newSrcListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <ref> [path]",
		Short: "List a directory at a ref",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			path := ""
			if len(args) > 1 {
				path = args[1]
			}

			entries, err := client.Source().Browse(cmd.Context(), args[0], path)
			if err != nil {
				return err
			}

			if outputFormat() != OutputFormatTable {
				return renderStructured(entries)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Name", "Type")

			for i := range entries {
				entryType := "file"
				if entries[i].Dir {
					entryType = "dir"
				}

				_ = table.Append(entries[i].Name, entryType)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newSrcCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <ref> <path>",
		Short: "Print a file at a ref",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			content, err := client.Source().FileContent(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			defer content.Close()

			_, err = io.Copy(os.Stdout, content)
			if err != nil {
				return fmt.Errorf("failed to write file content: %w", err)
			}

			return nil
		},
	}
}

func newSrcExistsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <ref> <path>",
		Short: "Check whether a path exists at a ref",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), true)
			if err != nil {
				return err
			}

			exists, err := client.Source().PathExists(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("%t\n", exists)

			return nil
		},
	}
}
