package main

import (
	"os"

	"project-tracker/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
