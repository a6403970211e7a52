package notebook

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/noelzubin/vocabnotes/logger"
	"github.com/noelzubin/vocabnotes/search"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Store is the set of notebooks under one directory. Every change is
// written through to the notebook's file before the call returns. A Store
// is safe for concurrent use.
type Store struct {
	root string
	now  func() time.Time

	mu        sync.RWMutex
	notebooks map[string]*Notebook
	files     []FileInfo // as of the last read or write
}

// Open reads every notebook under root, creating the directory and a first
// notebook if there are none.
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create notes directory %s", root)
	}

	s := &Store{
		root:      root,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		notebooks: make(map[string]*Notebook),
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}

	if len(s.Notebooks()) == 0 {
		if _, err := s.CreateNotebook(DefaultNotebook, DefaultLangPair, ""); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Root() string {
	return s.root
}

// Path is the file the notebook is stored in.
func (s *Store) Path(nbID string) string {
	return filepath.Join(s.root, nbID+notebookFileExt)
}

// Reload reads the directory again if any notebook file was created,
// modified or deleted since the store last read or wrote it, and reports
// whether it did. On error the previous state is kept.
func (s *Store) Reload() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := listNotebookFiles(s.root)
	if err != nil {
		return false, errors.Wrapf(err, "list notebooks in %s", s.root)
	}

	deleted, modified, created := compareFileInfos(s.files, current)
	if len(deleted)+len(modified)+len(created) == 0 {
		return false, nil
	}

	notebooks := make(map[string]*Notebook, len(current))
	for _, fi := range current {
		nb, err := readNotebook(fi.Path)
		if err != nil {
			return false, err
		}
		notebooks[nb.ID] = nb
	}

	logger.Debugw("Reloaded notebooks",
		"created", len(created),
		"modified", len(modified),
		"deleted", len(deleted))

	s.notebooks = notebooks
	s.files = current
	return true, nil
}

// Notebooks returns copies of all notebooks, newest first.
func (s *Store) Notebooks() []Notebook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

func (s *Store) sortedLocked() []Notebook {
	out := lo.MapToSlice(s.notebooks, func(_ string, nb *Notebook) Notebook {
		return nb.clone()
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) Notebook(id string) (Notebook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nb, ok := s.notebooks[id]
	if !ok {
		return Notebook{}, errors.Wrapf(ErrNotFound, "notebook %s", id)
	}
	return nb.clone(), nil
}

func (s *Store) CreateNotebook(name, languagePair, description string) (Notebook, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return Notebook{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.notebooks) >= MaxNotebooks {
		return Notebook{}, errors.WithHint(ErrTooManyNotebooks,
			"delete a notebook before creating a new one")
	}

	now := s.now()
	nb := &Notebook{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  strings.TrimSpace(description),
		LanguagePair: strings.TrimSpace(languagePair),
		Color:        Palette[len(s.notebooks)%len(Palette)],
		CreatedAt:    now,
		UpdatedAt:    now,
		Notes:        []Note{},
	}
	if err := s.writeLocked(nb); err != nil {
		return Notebook{}, err
	}
	s.notebooks[nb.ID] = nb
	return nb.clone(), nil
}

func (s *Store) RenameNotebook(id, name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	return s.update(id, func(nb *Notebook) error {
		nb.Name = name
		return nil
	})
}

// DeleteNotebook removes the notebook and its file. The last notebook
// cannot be deleted.
func (s *Store) DeleteNotebook(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notebooks[id]; !ok {
		return errors.Wrapf(ErrNotFound, "notebook %s", id)
	}
	if len(s.notebooks) <= 1 {
		return ErrLastNotebook
	}

	path := s.Path(id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", path)
	}
	delete(s.notebooks, id)
	s.files = slices.DeleteFunc(s.files, func(fi FileInfo) bool { return fi.Path == path })
	return nil
}

func (s *Store) AddNote(nbID, content1, content2 string) (Note, error) {
	content1, content2 = strings.TrimSpace(content1), strings.TrimSpace(content2)
	if err := validateNote(content1, content2); err != nil {
		return Note{}, err
	}

	note := Note{
		ID:        uuid.NewString(),
		Content1:  content1,
		Content2:  content2,
		CreatedAt: s.now(),
	}
	err := s.update(nbID, func(nb *Notebook) error {
		nb.Notes = append(nb.Notes, note)
		return nil
	})
	if err != nil {
		return Note{}, err
	}
	return note, nil
}

func (s *Store) UpdateNote(nbID, noteID, content1, content2 string) error {
	content1, content2 = strings.TrimSpace(content1), strings.TrimSpace(content2)
	if err := validateNote(content1, content2); err != nil {
		return err
	}
	return s.update(nbID, func(nb *Notebook) error {
		i := slices.IndexFunc(nb.Notes, func(n Note) bool { return n.ID == noteID })
		if i < 0 {
			return errors.Wrapf(ErrNotFound, "note %s", noteID)
		}
		nb.Notes[i].Content1 = content1
		nb.Notes[i].Content2 = content2
		return nil
	})
}

func (s *Store) DeleteNote(nbID, noteID string) error {
	return s.update(nbID, func(nb *Notebook) error {
		i := slices.IndexFunc(nb.Notes, func(n Note) bool { return n.ID == noteID })
		if i < 0 {
			return errors.Wrapf(ErrNotFound, "note %s", noteID)
		}
		nb.Notes = slices.Delete(nb.Notes, i, i+1)
		return nil
	})
}

// update applies fn to a copy of the notebook and keeps the result only
// once it is written.
func (s *Store) update(id string, fn func(nb *Notebook) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.notebooks[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "notebook %s", id)
	}

	nb := cur.clone()
	if err := fn(&nb); err != nil {
		return err
	}
	nb.UpdatedAt = s.now()
	if err := s.writeLocked(&nb); err != nil {
		return err
	}
	s.notebooks[id] = &nb
	return nil
}

// Records returns the notes of one notebook, or of all notebooks when
// nbID is empty, newest first.
func (s *Store) Records(nbID string) ([]search.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notes []Note
	if nbID == "" {
		for _, nb := range s.sortedLocked() {
			notes = append(notes, newestFirst(nb.Notes)...)
		}
	} else {
		nb, ok := s.notebooks[nbID]
		if !ok {
			return nil, errors.Wrapf(ErrNotFound, "notebook %s", nbID)
		}
		notes = newestFirst(nb.Notes)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return lo.Map(notes, func(n Note, _ int) search.Record { return n.Record() }), nil
}

// NoteCounts maps every notebook id to its number of notes.
func (s *Store) NoteCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.MapValues(s.notebooks, func(nb *Notebook, _ string) int {
		return len(nb.Notes)
	})
}

// newestFirst reverses the stored order, so notes sharing a timestamp keep
// the later-added one first.
func newestFirst(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[len(notes)-1-i] = n
	}
	return out
}

// writeLocked replaces the notebook's file and records its new stat, so
// that Reload does not treat the store's own write as a change.
func (s *Store) writeLocked(nb *Notebook) error {
	data, err := yaml.Marshal(nb)
	if err != nil {
		return errors.Wrapf(err, "encode notebook %s", nb.ID)
	}

	path := s.Path(nb.ID)
	tmp, err := os.CreateTemp(s.root, "."+nb.ID+"-*")
	if err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	if err := tmp.Chmod(notebookFileMode); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}

	fi, err := getFileInfoForFile(path)
	if err != nil {
		return errors.Wrapf(err, "stat %s", path)
	}
	s.files = slices.DeleteFunc(s.files, func(f FileInfo) bool { return f.Path == path })
	s.files = append(s.files, fi)
	sort.Slice(s.files, func(i, j int) bool { return s.files[i].Path < s.files[j].Path })
	return nil
}

func readNotebook(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	nb := &Notebook{}
	if err := yaml.Unmarshal(data, nb); err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "parse %s", path),
			"fix the file or remove it from the notes directory")
	}

	// The file name is the id. Hand-written files may leave out the rest of
	// what the store would fill in.
	nb.ID = strings.TrimSuffix(filepath.Base(path), notebookFileExt)
	if nb.Name == "" {
		nb.Name = nb.ID
	}
	for i := range nb.Notes {
		if nb.Notes[i].ID == "" {
			nb.Notes[i].ID = nb.ID + "-" + strconv.Itoa(i)
		}
	}
	return nb, nil
}

// NotebookOf returns the id of the notebook holding the note.
func (s *Store) NotebookOf(noteID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, nb := range s.notebooks {
		if slices.ContainsFunc(nb.Notes, func(n Note) bool { return n.ID == noteID }) {
			return id, true
		}
	}
	return "", false
}
