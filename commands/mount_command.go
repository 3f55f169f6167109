package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mitchellh/cli"

	"github.com/brettbedarf/editorfs/internal/util"
	"github.com/brettbedarf/editorfs/mount"
)

type MountCommand struct {
	Ui cli.Ui

	commonFlags
	umount bool
}

func (c *MountCommand) flags() *flag.FlagSet {
	fs := defaultFlagSet("mount")
	c.register(fs)
	fs.BoolVar(&c.umount, "u", false,
		"unmount the mountpoint first if needed; useful after a debugger did not exit cleanly")
	fs.Usage = func() { c.Ui.Error(c.Help()) }
	return fs
}

func (c *MountCommand) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		c.Ui.Error(fmt.Sprintf("Error parsing command-line flags: %s", err))
		return 1
	}
	if f.NArg() != 2 {
		c.Ui.Error(fmt.Sprintf("expected exactly 2 arguments (%d given): %q", f.NArg(), f.Args()))
		return 1
	}
	manifestPath, mnt := f.Arg(0), f.Arg(1)

	cfg, err := c.loadConfig()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Failed to load config: %s", err))
		return 1
	}
	logger := util.GetLogger("mount")

	if c.umount {
		unmountStale(mnt)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	tree, err := loadTree(ctx, cfg, manifestPath)
	if err != nil {
		if tree == nil {
			c.Ui.Error(fmt.Sprintf("Failed to load manifest: %s", err))
			return 1
		}
		logger.Warn().Err(err).Msg("Some manifest entries were not added")
	}
	stats := tree.Stats()
	logger.Info().Int("directories", stats.Dirs).Int("files", stats.Files).Msg("Loaded workspace")

	srv, err := mount.Mount(ctx, tree, mnt, cfg.MountOptions)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Failed to mount filesystem: %s", err))
		return 1
	}
	srv.Wait()
	logger.Info().Str("mountpoint", mnt).Msg("Filesystem unmounted")
	return 0
}

// fusermountBin releases a mount left behind by an earlier run
var fusermountBin = "fusermount"

func unmountStale(mnt string) {
	logger := util.GetLogger("mount")
	out, err := exec.Command(fusermountBin, "-u", mnt).CombinedOutput()
	if err != nil {
		// Not being mounted is fine
		logger.Debug().Err(err).
			Str("mountpoint", mnt).
			Str("output", strings.TrimSpace(string(out))).
			Msg("Did not unmount stale mount")
	}
}

func (c *MountCommand) Help() string {
	helpText := `
Usage: editorfs mount [options] <manifest> <mountpoint>

` + c.Synopsis() + "\n\n" + helpForFlags(c.flags())

	return strings.TrimSpace(helpText)
}

func (c *MountCommand) Synopsis() string {
	return "Mounts a read-only snapshot of a workspace manifest over FUSE"
}
