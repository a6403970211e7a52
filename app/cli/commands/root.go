package commands

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/noelzubin/vocabnotes/logger"
	"github.com/noelzubin/vocabnotes/notebook"
	"github.com/noelzubin/vocabnotes/search/engine"
	"github.com/noelzubin/vocabnotes/utils"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the vocabnotes command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vocabnotes",
		Short: "Search and manage bilingual vocabulary notes",
		Long: `vocabnotes - Search and manage bilingual vocabulary notes.

Notes are pairs of short texts (a phrase and its translation) kept in
notebooks, one YAML file per notebook under root_path.

Examples:
  vocabnotes query brekfast            # Fuzzy search every notebook
  vocabnotes query 勉強 -n Japanese     # Search one notebook
  vocabnotes notebooks                 # List notebooks with note counts
  vocabnotes add Japanese "Good night" "おやすみ"
  vocabnotes generate Japanese -c 20   # Add sample notes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := logger.Initialize(cfg.LoggerOptions()); err != nil {
				return errors.Wrap(err, "initialize logger")
			}
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "Config file (default $VOCABNOTES_CONFIG or ~/.config/vocabnotes/config.yaml)")
	root.PersistentFlags().String("root", "", "Notes directory, overrides root_path")

	root.AddCommand(newQueryCmd())
	root.AddCommand(newNotebooksCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newGenerateCmd())
	return root
}

func loadConfig(cmd *cobra.Command) (*utils.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := utils.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if root, _ := cmd.Flags().GetString("root"); root != "" {
		cfg.RootPath = root
	}
	return cfg, nil
}

func openStore(cmd *cobra.Command) (*notebook.Store, *utils.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := notebook.Open(cfg.RootPath)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

func newEngine(cfg *utils.Config, backend string) (*engine.Engine, error) {
	opts, err := cfg.SearchOptions()
	if err != nil {
		return nil, err
	}
	if backend != "" {
		if opts.Backend, err = engine.ParseBackend(backend); err != nil {
			return nil, err
		}
	}
	return engine.New(opts)
}

// resolveNotebook finds a notebook by id, or else by its name ignoring case.
func resolveNotebook(store *notebook.Store, ref string) (notebook.Notebook, error) {
	if nb, err := store.Notebook(ref); err == nil {
		return nb, nil
	}

	var found []notebook.Notebook
	for _, nb := range store.Notebooks() {
		if strings.EqualFold(nb.Name, ref) {
			found = append(found, nb)
		}
	}
	switch len(found) {
	case 0:
		return notebook.Notebook{}, errors.WithHint(
			errors.Wrapf(notebook.ErrNotFound, "notebook %q", ref),
			"run 'vocabnotes notebooks' to list notebooks")
	case 1:
		return found[0], nil
	}
	return notebook.Notebook{}, errors.WithHintf(
		errors.Newf("%d notebooks are named %q", len(found), ref),
		"use the notebook id instead")
}
