package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/editorfs/filesystem"
	"github.com/brettbedarf/editorfs/internal/util"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFormatTree(t *testing.T) {
	tree := filesystem.New()
	_, err := tree.Mkfile("src/components/App.ts", "")
	require.NoError(t, err)
	_, err = tree.Mkfile("index.ts", "")
	require.NoError(t, err)
	_, err = tree.Mkdir("docs")
	require.NoError(t, err)

	expected := strings.Join([]string{
		"/",
		"  src/",
		"    components/",
		"      App.ts",
		"  docs/",
		"  index.ts",
		"",
		"3 directories, 2 files",
	}, "\n")
	assert.Equal(t, expected, FormatTree(tree))
}

func TestFormatTree_Empty(t *testing.T) {
	assert.Equal(t, "/\n\n0 directories, 0 files", FormatTree(filesystem.New()))
}

func TestTreeCommand(t *testing.T) {
	path := writeManifest(t, "workspace.yaml", `
- type: dir
  path: src
- type: file
  path: src/main.ts
  content: console.log("hi")
- type: file
  path: README.md
  sources:
    - type: inline
      text: "# readme"
`)
	ui := cli.NewMockUi()
	c := &TreeCommand{Ui: ui}

	code := c.Run([]string{"-v", "1", path})

	assert.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "  src/\n    main.ts\n  README.md\n")
	assert.Contains(t, ui.OutputWriter.String(), "1 directories, 2 files")
}

func TestTreeCommand_PartialManifest(t *testing.T) {
	path := writeManifest(t, "workspace.json", `[
		{"type": "file", "path": "a", "content": "x"},
		{"type": "dir", "path": "a/b"},
		{"type": "file", "path": "ok.txt"}
	]`)
	ui := cli.NewMockUi()
	c := &TreeCommand{Ui: ui}

	code := c.Run([]string{"-v", "1", path})

	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "already exists")
	assert.Contains(t, ui.OutputWriter.String(), "ok.txt")
}

func TestTreeCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"NoArgs", []string{}, "expected exactly 1 argument"},
		{"BadFlag", []string{"-nope"}, "Error parsing command-line flags"},
		{"MissingFile", []string{"-v", "1", filepath.Join(t.TempDir(), "missing.json")}, "Failed to load manifest"},
		{"MissingConfig", []string{"-config", filepath.Join(t.TempDir(), "cfg.yaml"), "m.json"}, "Failed to load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := cli.NewMockUi()
			c := &TreeCommand{Ui: ui}

			code := c.Run(tt.args)

			assert.Equal(t, 1, code)
			assert.Contains(t, ui.ErrorWriter.String(), tt.want)
		})
	}
}

func TestMountCommand_Args(t *testing.T) {
	ui := cli.NewMockUi()
	c := &MountCommand{Ui: ui}

	code := c.Run([]string{"only-manifest.json"})

	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "expected exactly 2 arguments")
}

func TestHelp(t *testing.T) {
	for _, c := range []cli.Command{
		&TreeCommand{Ui: cli.NewMockUi()},
		&ServeCommand{Ui: cli.NewMockUi()},
		&MountCommand{Ui: cli.NewMockUi()},
	} {
		help := c.Help()
		assert.True(t, strings.HasPrefix(help, "Usage: editorfs "), help)
		assert.Contains(t, help, "-v")
		assert.NotEmpty(t, c.Synopsis())
	}
}

func TestUnmountStale_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	util.InitializeLoggerWriter(util.DebugLevel, &buf)
	prevBin := fusermountBin
	fusermountBin = "editorfs-no-such-fusermount"
	t.Cleanup(func() {
		fusermountBin = prevBin
		util.InitializeLogger(util.InfoLevel)
	})

	unmountStale(t.TempDir())

	assert.Contains(t, buf.String(), "Did not unmount stale mount")
	assert.Contains(t, buf.String(), "executable file not found")
}
