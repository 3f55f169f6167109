package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mitchellh/cli"

	"github.com/brettbedarf/editorfs/filesystem"
)

type TreeCommand struct {
	Ui cli.Ui

	commonFlags
}

func (c *TreeCommand) flags() *flag.FlagSet {
	fs := defaultFlagSet("tree")
	c.register(fs)
	fs.Usage = func() { c.Ui.Error(c.Help()) }
	return fs
}

func (c *TreeCommand) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		c.Ui.Error(fmt.Sprintf("Error parsing command-line flags: %s", err))
		return 1
	}
	if f.NArg() != 1 {
		c.Ui.Error(fmt.Sprintf("expected exactly 1 argument (%d given): %q", f.NArg(), f.Args()))
		return 1
	}

	cfg, err := c.loadConfig()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Failed to load config: %s", err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := 0
	tree, err := loadTree(ctx, cfg, f.Arg(0))
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Failed to load manifest: %s", err))
		if tree == nil {
			return 1
		}
		status = 1
	}

	c.Ui.Output(FormatTree(tree))
	return status
}

// FormatTree renders tree the way the file explorer shows it: one node per
// line, indented by depth, directories suffixed with a separator, followed by
// a count of directories and files.
func FormatTree(tree *filesystem.Tree) string {
	var b strings.Builder
	b.WriteString(filesystem.RootDisplayName + "\n")
	for depth, e := range tree.Walk() {
		b.WriteString(strings.Repeat("  ", depth+1))
		b.WriteString(e.DisplayName())
		if e.IsDir() {
			b.WriteString(filesystem.Separator)
		}
		b.WriteString("\n")
	}
	stats := tree.Stats()
	fmt.Fprintf(&b, "\n%d directories, %d files", stats.Dirs, stats.Files)
	return b.String()
}

func (c *TreeCommand) Help() string {
	helpText := `
Usage: editorfs tree [options] <manifest>

` + c.Synopsis() + "\n\n" + helpForFlags(c.flags())

	return strings.TrimSpace(helpText)
}

func (c *TreeCommand) Synopsis() string {
	return "Loads a workspace manifest and prints the explorer view"
}
