package main

import (
	"fmt"
	"os"

	"github.com/noelzubin/vocabnotes/app/cli/commands"
	"github.com/noelzubin/vocabnotes/logger"
)

func main() {
	defer logger.Cleanup()
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
