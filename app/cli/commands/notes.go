package commands

import (
	"fmt"

	"github.com/noelzubin/vocabnotes/notebook"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <notebook> <content1> [content2]",
		Short: "Add a note",
		Long: `Add a note to a notebook. Either side may be left empty, not both.
Each side holds at most 150 characters.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			nb, err := resolveNotebook(store, args[0])
			if err != nil {
				return err
			}
			content2 := ""
			if len(args) == 3 {
				content2 = args[2]
			}
			note, err := store.AddNote(nb.ID, args[1], content2)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), note.ID)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <notebook> <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			nb, err := resolveNotebook(store, args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteNote(nb.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", args[1])
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <notebook>",
		Short: "Add sample English-Japanese notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")

			store, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			nb, err := resolveNotebook(store, args[0])
			if err != nil {
				return err
			}
			notes, err := notebook.Generate(store, nb.ID, count)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d sample notes to %s\n", len(notes), nb.Name)
			return nil
		},
	}
	cmd.Flags().IntP("count", "c", 20, "Number of notes to add")
	return cmd
}
