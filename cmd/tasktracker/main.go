package main

import (
	"os"

	"task-tracker/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
