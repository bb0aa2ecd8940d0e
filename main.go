package main

import (
	"os"

	"github.com/jyou106/JobAssistantAgent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
