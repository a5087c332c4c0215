package main

import (
	"os"

	"github.com/maax3v3/coalesce/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
