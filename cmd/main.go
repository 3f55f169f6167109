package main

import (
	"os"

	"github.com/mitchellh/cli"

	"github.com/brettbedarf/editorfs/commands"
)

var version = "0.1.0"

func main() {
	c := &cli.CLI{
		Name:    "editorfs",
		Version: version,
		Args:    os.Args[1:],
	}

	ui := &cli.ColoredUi{
		ErrorColor: cli.UiColorRed,
		WarnColor:  cli.UiColorYellow,
		Ui: &cli.BasicUi{
			Writer:      os.Stdout,
			Reader:      os.Stdin,
			ErrorWriter: os.Stderr,
		},
	}

	c.Commands = map[string]cli.CommandFactory{
		"serve": func() (cli.Command, error) {
			return &commands.ServeCommand{Ui: ui}, nil
		},
		"tree": func() (cli.Command, error) {
			return &commands.TreeCommand{Ui: ui}, nil
		},
		"mount": func() (cli.Command, error) {
			return &commands.MountCommand{Ui: ui}, nil
		},
	}

	exitStatus, err := c.Run()
	if err != nil {
		ui.Error("Error: " + err.Error())
	}

	os.Exit(exitStatus)
}
