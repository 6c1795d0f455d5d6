package main

import (
	"os"

	"github.com/roach88/scenectx/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand(), os.Stdout, os.Stderr))
}
