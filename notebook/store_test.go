package notebook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/noelzubin/vocabnotes/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openStore returns a store whose clock advances a second per call,
// starting well after the first notebook was created.
func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	clock := time.Date(2100, 4, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestOpenCreatesFirstNotebook(t *testing.T) {
	root := filepath.Join(t.TempDir(), "notes")
	s, err := Open(root)
	require.NoError(t, err)

	nbs := s.Notebooks()
	require.Len(t, nbs, 1)
	assert.Equal(t, DefaultNotebook, nbs[0].Name)
	assert.Equal(t, DefaultLangPair, nbs[0].LanguagePair)
	assert.FileExists(t, s.Path(nbs[0].ID))
}

func TestOpenReadsExisting(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	require.NoError(t, err)
	nb, err := s.CreateNotebook("Spanish", "English-Spanish", "travel")
	require.NoError(t, err)
	_, err = s.AddNote(nb.ID, "Hello", "Hola")
	require.NoError(t, err)

	again, err := Open(root)
	require.NoError(t, err)
	assert.Len(t, again.Notebooks(), 2)

	got, err := again.Notebook(nb.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spanish", got.Name)
	assert.Equal(t, "travel", got.Description)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "Hola", got.Notes[0].Content2)
}

func TestNotebooksNewestFirst(t *testing.T) {
	s := openStore(t)
	a, err := s.CreateNotebook("A", "", "")
	require.NoError(t, err)
	b, err := s.CreateNotebook("B", "", "")
	require.NoError(t, err)

	nbs := s.Notebooks()
	require.Len(t, nbs, 3)
	assert.Equal(t, b.ID, nbs[0].ID)
	assert.Equal(t, a.ID, nbs[1].ID)
	assert.Equal(t, DefaultNotebook, nbs[2].Name)
}

func TestCreateNotebookValidation(t *testing.T) {
	s := openStore(t)

	_, err := s.CreateNotebook("   ", "", "")
	assert.True(t, errors.Is(err, ErrEmptyName))

	_, err = s.CreateNotebook(strings.Repeat("語", MaxNameChars+1), "", "")
	assert.True(t, errors.Is(err, ErrNameTooLong))

	_, err = s.CreateNotebook(strings.Repeat("語", MaxNameChars), "", "")
	assert.NoError(t, err)
}

func TestCreateNotebookLimit(t *testing.T) {
	s := openStore(t)
	for i := 1; i < MaxNotebooks; i++ {
		_, err := s.CreateNotebook("nb", "", "")
		require.NoError(t, err)
	}

	_, err := s.CreateNotebook("one too many", "", "")
	assert.True(t, errors.Is(err, ErrTooManyNotebooks))
	assert.Len(t, s.Notebooks(), MaxNotebooks)
}

func TestRenameNotebook(t *testing.T) {
	s := openStore(t)
	id := s.Notebooks()[0].ID

	require.NoError(t, s.RenameNotebook(id, " Japanese "))
	nb, err := s.Notebook(id)
	require.NoError(t, err)
	assert.Equal(t, "Japanese", nb.Name)

	assert.True(t, errors.Is(s.RenameNotebook(id, ""), ErrEmptyName))
	assert.True(t, errors.Is(s.RenameNotebook("missing", "x"), ErrNotFound))
}

func TestDeleteNotebook(t *testing.T) {
	s := openStore(t)
	first := s.Notebooks()[0].ID

	assert.True(t, errors.Is(s.DeleteNotebook(first), ErrLastNotebook))

	second, err := s.CreateNotebook("Second", "", "")
	require.NoError(t, err)
	require.NoError(t, s.DeleteNotebook(first))
	assert.NoFileExists(t, s.Path(first))

	nbs := s.Notebooks()
	require.Len(t, nbs, 1)
	assert.Equal(t, second.ID, nbs[0].ID)

	assert.True(t, errors.Is(s.DeleteNotebook(first), ErrNotFound))
}

func TestNotes(t *testing.T) {
	s := openStore(t)
	id := s.Notebooks()[0].ID

	n1, err := s.AddNote(id, "Good morning", "おはようございます")
	require.NoError(t, err)
	n2, err := s.AddNote(id, "  I like sushi  ", "寿司が好きです")
	require.NoError(t, err)
	assert.Equal(t, "I like sushi", n2.Content1)

	require.NoError(t, s.UpdateNote(id, n1.ID, "Good evening", "こんばんは"))
	require.NoError(t, s.DeleteNote(id, n2.ID))

	nb, err := s.Notebook(id)
	require.NoError(t, err)
	require.Len(t, nb.Notes, 1)
	assert.Equal(t, "Good evening", nb.Notes[0].Content1)
	assert.Equal(t, "こんばんは", nb.Notes[0].Content2)

	assert.True(t, errors.Is(s.DeleteNote(id, n2.ID), ErrNotFound))
	assert.True(t, errors.Is(s.UpdateNote(id, "missing", "a", "b"), ErrNotFound))
	_, err = s.AddNote("missing", "a", "b")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNoteValidation(t *testing.T) {
	s := openStore(t)
	id := s.Notebooks()[0].ID

	_, err := s.AddNote(id, " ", "")
	assert.True(t, errors.Is(err, ErrEmptyNote))

	_, err = s.AddNote(id, strings.Repeat("あ", MaxNoteChars+1), "")
	assert.True(t, errors.Is(err, ErrNoteTooLong))

	_, err = s.AddNote(id, "", strings.Repeat("あ", MaxNoteChars))
	assert.NoError(t, err)

	n, err := s.AddNote(id, "ok", "")
	require.NoError(t, err)
	assert.True(t, errors.Is(s.UpdateNote(id, n.ID, "", ""), ErrEmptyNote))

	// A rejected update leaves the note as it was.
	nb, err := s.Notebook(id)
	require.NoError(t, err)
	assert.Equal(t, "ok", nb.Notes[1].Content1)
}

func TestNotebookReturnsCopy(t *testing.T) {
	s := openStore(t)
	id := s.Notebooks()[0].ID
	_, err := s.AddNote(id, "a", "b")
	require.NoError(t, err)

	nb, err := s.Notebook(id)
	require.NoError(t, err)
	nb.Notes[0].Content1 = "changed"

	again, err := s.Notebook(id)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Notes[0].Content1)
}

func TestRecords(t *testing.T) {
	s := openStore(t)
	jp := s.Notebooks()[0].ID
	es, err := s.CreateNotebook("Spanish", "English-Spanish", "")
	require.NoError(t, err)

	a, err := s.AddNote(jp, "Good morning", "おはようございます")
	require.NoError(t, err)
	b, err := s.AddNote(es.ID, "Hello", "Hola")
	require.NoError(t, err)
	c, err := s.AddNote(jp, "Thank you", "ありがとう")
	require.NoError(t, err)

	recs, err := s.Records(jp)
	require.NoError(t, err)
	assert.Equal(t, []search.Record{
		{ID: c.ID, FieldA: "Thank you", FieldB: "ありがとう"},
		{ID: a.ID, FieldA: "Good morning", FieldB: "おはようございます"},
	}, recs)

	all, err := s.Records("")
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, ids)

	_, err = s.Records("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecordsSameTimestamp(t *testing.T) {
	s := openStore(t)
	id := s.Notebooks()[0].ID
	fixed := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	a, err := s.AddNote(id, "first", "")
	require.NoError(t, err)
	b, err := s.AddNote(id, "second", "")
	require.NoError(t, err)

	recs, err := s.Records(id)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, b.ID, recs[0].ID)
	assert.Equal(t, a.ID, recs[1].ID)
}

func TestNoteCounts(t *testing.T) {
	s := openStore(t)
	jp := s.Notebooks()[0].ID
	es, err := s.CreateNotebook("Spanish", "", "")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.AddNote(jp, "a", "b")
		require.NoError(t, err)
	}
	assert.Equal(t, map[string]int{jp: 3, es.ID: 0}, s.NoteCounts())
}

func TestReload(t *testing.T) {
	s := openStore(t)

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "own writes are not changes")

	_, err = s.AddNote(s.Notebooks()[0].ID, "a", "b")
	require.NoError(t, err)
	changed, err = s.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	external := `name: Hand written
language_pair: English-French
notes:
  - content1: cat
    content2: chat
  - content1: dog
    content2: chien
`
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "french.yaml"), []byte(external), 0o644))
	changed, err = s.Reload()
	require.NoError(t, err)
	assert.True(t, changed)

	nb, err := s.Notebook("french")
	require.NoError(t, err)
	assert.Equal(t, "Hand written", nb.Name)
	require.Len(t, nb.Notes, 2)
	assert.Equal(t, "french-0", nb.Notes[0].ID)
	assert.Equal(t, "chien", nb.Notes[1].Content2)

	require.NoError(t, os.Remove(filepath.Join(s.Root(), "french.yaml")))
	changed, err = s.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	_, err = s.Notebook("french")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReloadKeepsStateOnBadFile(t *testing.T) {
	s := openStore(t)
	before := s.Notebooks()

	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "broken.yaml"), []byte("notes: [unclosed"), 0o644))
	_, err := s.Reload()
	assert.Error(t, err)
	assert.Equal(t, before, s.Notebooks())
}

func TestReloadIgnoresOtherFiles(t *testing.T) {
	s := openStore(t)

	for _, name := range []string{"notes.txt", ".hidden.yaml", "backup.yaml~"} {
		require.NoError(t, os.WriteFile(filepath.Join(s.Root(), name), []byte("::"), 0o644))
	}
	changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestNotebookOf(t *testing.T) {
	s := openStore(t)
	es, err := s.CreateNotebook("Spanish", "", "")
	require.NoError(t, err)
	n, err := s.AddNote(es.ID, "Hello", "Hola")
	require.NoError(t, err)

	id, ok := s.NotebookOf(n.ID)
	assert.True(t, ok)
	assert.Equal(t, es.ID, id)

	_, ok = s.NotebookOf("missing")
	assert.False(t, ok)
}
