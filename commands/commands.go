// Package commands implements the editorfs command line.
package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"github.com/brettbedarf/editorfs/adapters"
	"github.com/brettbedarf/editorfs/config"
	"github.com/brettbedarf/editorfs/filesystem"
	"github.com/brettbedarf/editorfs/internal/util"
	"github.com/brettbedarf/editorfs/requests"
)

func defaultFlagSet(cmdName string) *flag.FlagSet {
	f := flag.NewFlagSet(cmdName, flag.ContinueOnError)
	f.SetOutput(io.Discard)

	// Set the default Usage to empty
	f.Usage = func() {}

	return f
}

func helpForFlags(fs *flag.FlagSet) string {
	buf := &strings.Builder{}
	buf.WriteString("Options:\n\n")

	w := fs.Output()
	defer fs.SetOutput(w)
	fs.SetOutput(buf)
	fs.PrintDefaults()

	return buf.String()
}

// commonFlags are shared by every command that loads configuration
type commonFlags struct {
	configPath string
	verbose    int
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "path to a YAML or JSON config file")
	fs.IntVar(&c.verbose, "v", 0, "log verbosity between 1 (error) and 5 (trace); overrides the config file")
}

// loadConfig reads the config file if one was given, applies the verbosity
// flag and initializes logging
func (c *commonFlags) loadConfig() (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if c.configPath != "" {
		var err error
		if cfg, err = config.NewConfigFromFile(c.configPath); err != nil {
			return nil, err
		}
	}
	if c.verbose > 0 {
		cfg.Merge(&config.ConfigOverride{LogLvl: &c.verbose})
	}
	util.InitializeLogger(cfg.LogLvl)
	return cfg, nil
}

// loadTree builds a fresh tree from the manifest at path. Invalid or failing
// entries are reported in the error; the tree holds every entry that applied.
func loadTree(ctx context.Context, cfg *config.Config, path string) (*filesystem.Tree, error) {
	r := adapters.NewRegistry()
	adapters.RegisterBuiltins(r, cfg)

	tree := filesystem.New()
	m, parseErr := requests.LoadManifest(path, r)
	if m == nil {
		return nil, parseErr
	}
	m.MaxContentSize = cfg.MaxContentSize
	_, applyErr := m.Apply(ctx, tree)
	if parseErr != nil {
		return tree, parseErr
	}
	return tree, applyErr
}
