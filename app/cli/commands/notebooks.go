package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newNotebooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notebooks",
		Aliases: []string{"nb"},
		Short:   "List and manage notebooks",
		Args:    cobra.NoArgs,
		RunE:    runNotebooksList,
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a notebook",
		Args:  cobra.ExactArgs(1),
		RunE:  runNotebooksCreate,
	}
	create.Flags().StringP("pair", "p", "", "Language pair, e.g. English-Japanese")
	create.Flags().StringP("description", "d", "", "Description")

	rename := &cobra.Command{
		Use:   "rename <notebook> <name>",
		Short: "Rename a notebook",
		Args:  cobra.ExactArgs(2),
		RunE:  runNotebooksRename,
	}

	del := &cobra.Command{
		Use:   "delete <notebook>",
		Short: "Delete a notebook and all of its notes",
		Args:  cobra.ExactArgs(1),
		RunE:  runNotebooksDelete,
	}

	cmd.AddCommand(create, rename, del)
	return cmd
}

func runNotebooksList(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}

	counts := store.NoteCounts()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLANGUAGES\tNOTES")
	for _, nb := range store.Notebooks() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", nb.ID, nb.Name, nb.LanguagePair, counts[nb.ID])
	}
	return w.Flush()
}

func runNotebooksCreate(cmd *cobra.Command, args []string) error {
	pair, _ := cmd.Flags().GetString("pair")
	description, _ := cmd.Flags().GetString("description")

	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	nb, err := store.CreateNotebook(args[0], pair, description)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created notebook %s (%s)\n", nb.Name, nb.ID)
	return nil
}

func runNotebooksRename(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	nb, err := resolveNotebook(store, args[0])
	if err != nil {
		return err
	}
	if err := store.RenameNotebook(nb.ID, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed notebook %s\n", nb.ID)
	return nil
}

func runNotebooksDelete(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	nb, err := resolveNotebook(store, args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteNotebook(nb.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted notebook %s\n", nb.Name)
	return nil
}
