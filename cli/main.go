package main

import (
	"os"

	"github.com/dbal-go/dbal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
