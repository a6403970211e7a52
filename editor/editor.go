package editor

import (
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type Editor struct {
	Editing   bool   // Is the editor open
	EditorCmd string // Command to open the editor on shell, may carry flags
}

// EditingFinished is sent when the editor exits.
type EditingFinished struct {
	Path string
	Err  error
}

// Command builds the process that edits path.
func (m Editor) Command(path string) *exec.Cmd {
	fields := strings.Fields(m.EditorCmd)
	if len(fields) == 0 {
		fields = []string{"vi"}
	}
	args := append(fields[1:], path)
	return exec.Command(fields[0], args...)
}

// EditFile hands the terminal to the editor until it exits.
func (m *Editor) EditFile(path string) tea.Cmd {
	m.Editing = true
	return tea.ExecProcess(m.Command(path), func(err error) tea.Msg {
		return EditingFinished{Path: path, Err: err}
	})
}

func (m *Editor) Init() tea.Cmd {
	return nil
}

func (m Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	switch msg.(type) {
	case EditingFinished:
		m.Editing = false
	}
	return m, nil
}

// Doesnt render anything
func (m Editor) View() string {
	return ""
}
