package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/stefanpenner/raidlog/pkg/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
	defer app.Close()

	root := cli.NewRootCmd(app)
	root.SilenceErrors = true
	return root.Execute()
}
