package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/knipferrc/teacup/code"
	"github.com/noelzubin/vocabnotes/editor"
	"github.com/noelzubin/vocabnotes/logger"
	"github.com/noelzubin/vocabnotes/notebook"
	"github.com/noelzubin/vocabnotes/search"
	"github.com/noelzubin/vocabnotes/search/engine"
	"github.com/noelzubin/vocabnotes/search/highlight"
	"github.com/samber/lo"
)

var (
	ListStyle   = lipgloss.NewStyle().MarginTop(1)
	StatusStyle = lipgloss.NewStyle().MarginLeft(2).Faint(true)
	MatchStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// Main app model for bubbletea
type Model struct {
	width     int             // width of terminal
	height    int             // height of terminal
	preview   *code.Bubble    // the preview widget model
	list      list.Model      // the list widget model
	textInput textinput.Model // the input search widget model
	engine    *engine.Engine  // ranks the notes of the current scope
	store     *notebook.Store // where the notes live
	scope     string          // notebook id, empty for all notebooks
	status    string          // last error, if any
	editor    editor.Editor   // for opening up external editor.
}

// Create a new model for the app
func New(store *notebook.Store, eng *engine.Engine, editorCmd string) *Model {
	return &Model{
		list:      create_list_model(),
		textInput: create_text_input(),
		engine:    eng,
		store:     store,
		editor:    editor.Editor{Editing: false, EditorCmd: editorCmd},
	}
}

func (m *Model) setListSize() {
	width := m.width
	height := m.height

	// If preview is open take half width
	if m.preview != nil {
		width = m.width / 2
	}

	m.list.SetSize(width, height-3)
}

func (m *Model) setPreviewSize() {
	if m.preview != nil {
		m.preview.SetSize(m.width/2, m.height)
	}
}

func (m *Model) updateSize(width, height int) {
	m.height = height
	m.width = width

	m.setListSize()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.reindex(false))
}

// IndexedMsg is emitted once the engine holds the notes of the scope.
type IndexedMsg struct {
	Err error
}

// StoreChangedMsg is sent by the watcher after the files changed on disk.
type StoreChangedMsg struct{}

// This is emitted when a query has been ranked
type ResultMsg struct {
	search.SearchResult
}

// reindex feeds the engine the notes of the current scope, reading the
// files again first when reload is set.
func (m Model) reindex(reload bool) tea.Cmd {
	store, eng, scope := m.store, m.engine, m.scope
	return func() tea.Msg {
		if reload {
			if _, err := store.Reload(); err != nil {
				return IndexedMsg{Err: err}
			}
		}
		records, err := store.Records(scope)
		if err != nil {
			return IndexedMsg{Err: err}
		}
		return IndexedMsg{Err: eng.Rebuild(records)}
	}
}

// search ranks the query. The empty query lists every note in scope.
func (m Model) search(query string) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			hits := lo.Map(eng.Records(), func(r search.Record, _ int) search.Hit {
				return search.Hit{Record: r}
			})
			return ResultMsg{search.SearchResult{Query: query, Hits: hits}}
		}
		return ResultMsg{eng.Search(query)}
	}
}

// nextScope cycles all notebooks, then each notebook newest first.
func (m Model) nextScope() string {
	ids := append([]string{""}, lo.Map(m.store.Notebooks(), func(nb notebook.Notebook, _ int) string {
		return nb.ID
	})...)
	i := lo.IndexOf(ids, m.scope)
	return ids[(i+1)%len(ids)]
}

func (m Model) scopeTitle() string {
	if m.scope == "" {
		return "All notebooks"
	}
	nb, err := m.store.Notebook(m.scope)
	if err != nil {
		return m.scope
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(nb.Color)).Render("■ ") + nb.Title()
}

// Formats the content of a note
// removes newslines and replaces tabs with single space.
func formatContent(content string) string {
	s := stripansi.Strip(content)
	s = strings.ReplaceAll(s, "\n", " ↵ ")
	re := regexp.MustCompile(`\s{2,}|\t+`)
	return string(re.ReplaceAll([]byte(s), []byte(" ")))
}

// The update fn for the bubbletea model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case IndexedMsg:
		m.status = ""
		if msg.Err != nil {
			logger.Errorw("Indexing notes failed", "error", msg.Err)
			m.status = msg.Err.Error()
		}
		cmds = append(cmds, m.search(m.textInput.Value()))
	case StoreChangedMsg:
		cmds = append(cmds, m.reindex(false))
	case ResultMsg:
		// Drop results of queries typed over since.
		if strings.TrimSpace(msg.Query) != strings.TrimSpace(m.textInput.Value()) {
			break
		}
		if msg.Err != nil {
			logger.Warnw("Structural lookup failed", "query", msg.Query, "error", msg.Err)
		}
		m.list.SetItems(lo.Map(msg.Hits, func(hit search.Hit, _ int) list.Item {
			return Note{hit: hit, query: msg.Query}
		}))
	case tea.KeyMsg:
		// Keybindings:
		// Tab - move down in the list
		// Shift+Tab - move up in the list
		// Ctrl+N - switch to the next notebook
		// Enter - toggle preview of the selected note's notebook file
		// Esc - close preview
		// Ctrl+R - read the notebook files again
		// Ctrl+K - Preview lineup
		// Ctrl+J - Preview line down
		// Ctrl+O - Open the notebook file in the editor
		// Ctrl+C - quit the application
		switch msg.String() {
		case "tab":
			m.list.CursorDown()
		case "shift+tab":
			m.list.CursorUp()
		case "ctrl+n":
			m.scope = m.nextScope()
			m.preview = nil
			return m, m.reindex(false)
		case "enter":
			if path, ok := m.selectedPath(); ok {
				codeModel := code.New(false, true, lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})
				codeModel.SetSize(m.width/1, m.height)
				cmds = append(cmds, codeModel.SetFileName(path))
				m.preview = &codeModel
			}
		case "esc":
			m.preview = nil
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			return m, m.reindex(true)
		case "ctrl+k":
			if m.preview != nil {
				m.preview.Viewport.LineUp(5)
			}
		case "ctrl+j":
			if m.preview != nil {
				m.preview.Viewport.LineDown(5)
			}
		case "ctrl+o":
			if path, ok := m.selectedPath(); ok {
				cmd = m.editor.EditFile(path)
				cmds = append(cmds, cmd)
			}
		default:
			logger.Debugw("Key pressed", "key", msg.String())
		}
	case editor.EditingFinished:
		if msg.Err != nil {
			logger.Errorw("Editor failed", "path", msg.Path, "error", msg.Err)
			m.status = msg.Err.Error()
		}
		cmds = append(cmds, m.reindex(true))
	case tea.WindowSizeMsg:
		m.updateSize(msg.Width, msg.Height)
	}

	// Update the widgets sizes
	m.setListSize()
	m.setPreviewSize()

	// save to commpare if changed
	oldValue := m.textInput.Value()

	// pass on message to the other components
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)

	if m.preview != nil {
		var newPreview code.Bubble
		newPreview, cmd = m.preview.Update(msg)
		cmds = append(cmds, cmd)
		m.preview = &newPreview
	}

	// If input has changed, search for the new value
	newValue := m.textInput.Value()
	if oldValue != newValue {
		cmds = append(cmds, m.search(newValue))
	}

	return m, tea.Batch(cmds...)
}

// selectedPath is the file of the notebook holding the selected note.
func (m Model) selectedPath() (string, bool) {
	item, ok := m.list.SelectedItem().(Note)
	if !ok {
		return "", false
	}
	nbID, ok := m.store.NotebookOf(item.hit.ID)
	if !ok {
		return "", false
	}
	return m.store.Path(nbID), true
}

// View fn for bubbletea model
func (m Model) View() string {
	listContent := ListStyle.Render(m.list.View())

	// render list
	innerContent := listContent

	// if preview then preview takes up half the width
	if m.preview != nil {
		innerContent = lipgloss.JoinHorizontal(lipgloss.Left,
			listContent,      // render list
			m.preview.View(), // render preview.
		)
	}

	status := fmt.Sprintf("%s · %d notes · %d shown", m.scopeTitle(), m.engine.Len(), len(m.list.Items()))
	if m.status != "" {
		status += " · " + m.status
	}

	// render the input box, the content and the status line
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.textInput.View(), // render the text input
		innerContent,       // render the main content
		StatusStyle.Render(status),
	)
}

// Note implements list.Item interface
type Note struct {
	hit   search.Hit
	query string
}

func (n Note) Title() string       { return render(n.hit.FieldA, n.query) }
func (n Note) Description() string { return render(n.hit.FieldB, n.query) }
func (n Note) FilterValue() string { return "" }

func render(field, query string) string {
	return highlight.Apply(formatContent(field), query, func(s string) string {
		return MatchStyle.Render(s)
	})
}

// Create the list model
func create_list_model() list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.Styles.NoItems = l.Styles.NoItems.Copy().PaddingLeft(2)
	return l
}

// Create the text input model
func create_text_input() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "search notes"
	ti.Prompt = "Search:"
	ti.PromptStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		MarginRight(1).
		MarginLeft(2).
		Padding(0, 1)
	ti.Focus()
	return ti
}
