// Package notes implements the command line client for the notes API.
package notes

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/simple-notes/internal/client"
	"github.com/tphakala/simple-notes/internal/conf"
)

// Command creates the notes command and its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes on a running server",
	}

	cmd.PersistentFlags().String("server", "", "API base URL, e.g. http://localhost:5000/api")
	_ = viper.BindPFlag("client.serverurl", cmd.PersistentFlags().Lookup("server"))

	newClient := func() (*client.Client, error) {
		return client.New(client.ConfigFromSettings(settings))
	}

	cmd.AddCommand(
		listCommand(newClient),
		showCommand(newClient),
		addCommand(newClient),
		editCommand(newClient),
		rmCommand(newClient),
	)
	return cmd
}

type clientFactory func() (*client.Client, error)

func listCommand(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			collection := client.NewCollection(c)
			if err := collection.Load(cmd.Context()); err != nil {
				return fmt.Errorf("failed to list notes: %w", err)
			}

			out := cmd.OutOrStdout()
			list := collection.Notes()
			fmt.Fprintf(out, "%s\n", bold(fmt.Sprintf("Your Notes (%d)", len(list))))
			if len(list) == 0 {
				fmt.Fprintln(out, faint("No notes yet. Create your first note with 'notes add'."))
				return nil
			}
			for i := range list {
				fmt.Fprint(out, FormatListItem(&list[i]))
			}
			return nil
		},
	}
}

func showCommand(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			note, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get note: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatNote(note))
			return nil
		},
	}
}

func addCommand(newClient clientFactory) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			note, err := client.NewCollection(c).Save(cmd.Context(), title, content)
			if err != nil {
				return fmt.Errorf("failed to save note: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), Success("Created note "+note.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Note title (max 100 characters)")
	cmd.Flags().StringVarP(&content, "content", "m", "", "Note content (max 5000 characters)")
	return cmd
}

func editCommand(newClient clientFactory) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title or content of a note",
		Long:  "Replace the title and content of a note. A field whose flag is not given keeps its current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			current, err := c.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get note: %w", err)
			}

			if !cmd.Flags().Changed("title") {
				title = current.Title
			}
			if !cmd.Flags().Changed("content") {
				content = current.Content
			}

			collection := client.NewCollection(c)
			collection.Edit(*current)
			note, err := collection.Save(ctx, title, content)
			if err != nil {
				return fmt.Errorf("failed to update note: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), Success("Updated note "+note.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&content, "content", "m", "", "New content")
	return cmd
}

func rmCommand(newClient clientFactory) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			id := args[0]
			if !force && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to delete this note?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := remove(cmd.Context(), c, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), Success("Deleted note "+id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func remove(ctx context.Context, c *client.Client, id string) error {
	if err := client.NewCollection(c).Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
