// Package notebook keeps vocabulary notes in YAML files, one file per
// notebook, and turns them into search records.
package notebook

import (
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/noelzubin/vocabnotes/search"
)

const (
	MaxNoteChars     = 150
	MaxNameChars     = 40
	MaxNotebooks     = 10
	DefaultLangPair  = "English-Japanese"
	DefaultNotebook  = "My Notebook"
	notebookFileExt  = ".yaml"
	notebookFileMode = 0o644
)

// Palette holds the colors a notebook can be shown with.
var Palette = []string{
	"#E74C3C", // red
	"#F39C12", // orange
	"#F7DC6F", // yellow
	"#58D68D", // green
	"#AFEEEE", // cyan
	"#1E90FF", // blue
	"#9370DB", // violet
	"#FFC0CB", // pink
	"#F8F8FF", // white
	"#4D5052", // black
}

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyNote        = errors.New("note has no content")
	ErrNoteTooLong      = errors.New("note field too long")
	ErrEmptyName        = errors.New("notebook name is empty")
	ErrNameTooLong      = errors.New("notebook name too long")
	ErrTooManyNotebooks = errors.New("too many notebooks")
	ErrLastNotebook     = errors.New("cannot delete the last notebook")
)

type Note struct {
	ID        string    `yaml:"id"`
	Content1  string    `yaml:"content1"`
	Content2  string    `yaml:"content2"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Record is the note as the search engine sees it.
func (n Note) Record() search.Record {
	return search.Record{ID: n.ID, FieldA: n.Content1, FieldB: n.Content2}
}

type Notebook struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	Description  string    `yaml:"description,omitempty"`
	LanguagePair string    `yaml:"language_pair,omitempty"`
	Color        string    `yaml:"color,omitempty"`
	CreatedAt    time.Time `yaml:"created_at"`
	UpdatedAt    time.Time `yaml:"updated_at"`
	Notes        []Note    `yaml:"notes"`
}

// Title is the name with the language pair, if any.
func (nb Notebook) Title() string {
	if nb.LanguagePair == "" {
		return nb.Name
	}
	return nb.Name + " (" + nb.LanguagePair + ")"
}

func (nb Notebook) clone() Notebook {
	nb.Notes = append([]Note(nil), nb.Notes...)
	return nb
}

func validateNote(content1, content2 string) error {
	if content1 == "" && content2 == "" {
		return ErrEmptyNote
	}
	for _, c := range []string{content1, content2} {
		if n := utf8.RuneCountInString(c); n > MaxNoteChars {
			return errors.WithHintf(errors.Wrapf(ErrNoteTooLong, "%d characters", n),
				"a note field holds at most %d characters", MaxNoteChars)
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if n := utf8.RuneCountInString(name); n > MaxNameChars {
		return errors.WithHintf(errors.Wrapf(ErrNameTooLong, "%d characters", n),
			"a notebook name holds at most %d characters", MaxNameChars)
	}
	return nil
}
