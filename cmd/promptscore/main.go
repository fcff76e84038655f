// Package main is the entry point for the PromptScore CLI.
package main

import (
	"os"

	"github.com/f3rmion/promptscore/cmd/promptscore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
