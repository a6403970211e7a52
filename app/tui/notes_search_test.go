package main

import (
	"testing"

	"github.com/acarl005/stripansi"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/noelzubin/vocabnotes/notebook"
	"github.com/noelzubin/vocabnotes/search"
	"github.com/noelzubin/vocabnotes/search/engine"
	"github.com/noelzubin/vocabnotes/search/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *notebook.Store) {
	t.Helper()
	store, err := notebook.Open(t.TempDir())
	require.NoError(t, err)
	eng, err := engine.New(engine.Options{Strategy: tokenizer.StrategyFallback})
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })

	return *New(store, eng, "true"), store
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func TestFormatContent(t *testing.T) {
	assert.Equal(t, "a ↵ b c", formatContent("a\nb\t\tc"))
	assert.Equal(t, "red", formatContent("\x1b[31mred\x1b[0m"))
}

func TestNoteRendersHighlight(t *testing.T) {
	n := Note{hit: search.Hit{Record: search.Record{ID: "1", FieldA: "Good morning", FieldB: "おはよう"}}, query: "morning"}
	assert.Equal(t, "Good morning", stripansi.Strip(n.Title()))
	assert.Equal(t, "おはよう", n.Description())
	assert.Equal(t, "", n.FilterValue())
}

func TestIndexAndSearch(t *testing.T) {
	m, store := newTestModel(t)
	nbID := store.Notebooks()[0].ID
	_, err := store.AddNote(nbID, "Good morning", "おはようございます")
	require.NoError(t, err)
	_, err = store.AddNote(nbID, "I like sushi", "寿司が好きです")
	require.NoError(t, err)

	indexed := m.reindex(false)()
	require.IsType(t, IndexedMsg{}, indexed)
	assert.NoError(t, indexed.(IndexedMsg).Err)

	// The empty query lists everything in scope.
	m = run(t, m, m.search(""))
	assert.Len(t, m.list.Items(), 2)

	m.textInput.SetValue("sushi")
	m = run(t, m, m.search("sushi"))
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "I like sushi", m.list.Items()[0].(Note).hit.FieldA)

	path, ok := m.selectedPath()
	assert.True(t, ok)
	assert.Equal(t, store.Path(nbID), path)
}

func TestStaleResultsDropped(t *testing.T) {
	m, _ := newTestModel(t)
	m.textInput.SetValue("sushi")

	stale := ResultMsg{search.SearchResult{Query: "sus", Hits: search.Hits{{Record: search.Record{ID: "x"}}}}}
	next, _ := m.Update(stale)
	assert.Empty(t, next.(Model).list.Items())
}

func TestNextScope(t *testing.T) {
	m, store := newTestModel(t)
	first := store.Notebooks()[0].ID
	second, err := store.CreateNotebook("Spanish", "English-Spanish", "")
	require.NoError(t, err)

	order := []string{}
	for i := 0; i < 3; i++ {
		m.scope = m.nextScope()
		order = append(order, m.scope)
	}
	assert.ElementsMatch(t, []string{first, second.ID}, order[:2])
	assert.Equal(t, "", order[2])
}

func TestIndexedErrorShowsStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m.scope = "missing"

	msg := m.reindex(false)()
	next, _ := m.Update(msg)
	assert.Contains(t, next.(Model).status, "not found")
}
