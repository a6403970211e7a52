package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/noelzubin/vocabnotes/logger"
	"github.com/noelzubin/vocabnotes/search"
	"github.com/noelzubin/vocabnotes/search/highlight"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var matchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

type hitOutput struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	FieldA string  `json:"content1"`
	FieldB string  `json:"content2"`
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <text>...",
		Short: "Fuzzy search notes",
		Long: `Rank the notes against the query, best match first.

Typos, partial words and mixed English/Japanese queries are matched.
Only hits scoring at least search.min_score are shown.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runQuery,
	}
	cmd.Flags().StringP("notebook", "n", "", "Only search this notebook (id or name)")
	cmd.Flags().String("backend", "", "Structural index backend: memory or bleve")
	cmd.Flags().BoolP("scores", "s", false, "Show scores")
	cmd.Flags().BoolP("json", "j", false, "Output hits as JSON")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	nbRef, _ := cmd.Flags().GetString("notebook")
	backend, _ := cmd.Flags().GetString("backend")
	showScores, _ := cmd.Flags().GetBool("scores")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}

	scope := ""
	if nbRef != "" {
		nb, err := resolveNotebook(store, nbRef)
		if err != nil {
			return err
		}
		scope = nb.ID
	}
	records, err := store.Records(scope)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg, backend)
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Rebuild(records); err != nil {
		logger.Warnw("Index rebuild failed, ranking without boost", "error", err)
	}

	result := eng.Search(strings.Join(args, " "))
	if result.Err != nil {
		logger.Warnw("Structural lookup failed", "error", result.Err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		hits := lo.Map(result.Hits, func(h search.Hit, _ int) hitOutput {
			return hitOutput{ID: h.ID, Score: h.Score, FieldA: h.FieldA, FieldB: h.FieldB}
		})
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(result.Hits) == 0 {
		fmt.Fprintf(out, "No notes match %q\n", result.Query)
		return nil
	}
	mark := func(s string) string { return matchStyle.Render(s) }
	for _, hit := range result.Hits {
		line := highlight.Apply(hit.FieldA, result.Query, mark) + "  " +
			highlight.Apply(hit.FieldB, result.Query, mark)
		if showScores {
			line = fmt.Sprintf("%6.1f  %s", hit.Score, line)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
