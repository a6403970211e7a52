package main

import (
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noelzubin/vocabnotes/logger"
	"github.com/noelzubin/vocabnotes/notebook"
	"github.com/noelzubin/vocabnotes/search/engine"
	"github.com/noelzubin/vocabnotes/utils"
)

func main() {
	// read application config
	config := utils.NewConfig()

	// The terminal belongs to the UI, so logs always go to a file.
	logOpts := config.LoggerOptions()
	if logOpts.File == "" {
		homedir, _ := os.UserHomeDir()
		logOpts.File = filepath.Join(homedir, ".config", "vocabnotes", "debug.log")
		_ = os.MkdirAll(filepath.Dir(logOpts.File), 0o755)
	}
	if err := logger.Initialize(logOpts); err != nil {
		log.Fatalf("%+v", err)
	}
	defer logger.Cleanup()

	store, err := notebook.Open(config.RootPath)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	opts, err := config.SearchOptions()
	if err != nil {
		log.Fatalf("%+v", err)
	}
	eng, err := engine.New(opts)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	defer eng.Close()

	watcher, err := notebook.NewWatcher(store)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	defer watcher.Close()

	// Create a new bubbletea Model
	m := New(store, eng, config.Editor)
	p := tea.NewProgram(m)
	watcher.Subscribe(func() { p.Send(StoreChangedMsg{}) })
	watcher.Start()

	if _, err := p.Run(); err != nil {
		logger.Errorw("TUI exited with error", "error", err)
		log.Fatal(err)
	}
}
