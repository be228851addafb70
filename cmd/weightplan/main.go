// ABOUTME: Entry point for the weightplan CLI.
// ABOUTME: Weight-goal planning, calorie targets, and progress history from the terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Execute runs the root command. Storage is closed even when a command
// fails, since cobra skips post-run hooks on error.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeStorage(); err == nil {
		err = cerr
	}
	return err
}
