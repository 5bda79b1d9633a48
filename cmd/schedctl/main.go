package main

import (
	"os"

	"alcyxob/trainer-scheduler/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
