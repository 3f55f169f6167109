package requests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/editorfs"
	"github.com/brettbedarf/editorfs/adapters"
	"github.com/brettbedarf/editorfs/internal/util"
)

// Format is a manifest encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the manifest format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown manifest file extension: %s", path)
	}
}

// Manifest is a parsed workspace definition: the directories and files a
// fresh tree should be seeded with.
type Manifest struct {
	Dirs  []*editorfs.DirCreateRequest
	Files []*editorfs.FileCreateRequest

	MaxContentSize int // Applied to resolved file content; <= 0 disables the limit
}

// Len returns the number of node requests in m
func (m *Manifest) Len() int {
	return len(m.Dirs) + len(m.Files)
}

// LoadManifest reads and parses the manifest file at path
func LoadManifest(path string, r *adapters.Registry) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data, format, r)
}

// ParseManifest decodes a manifest, a list of node entries:
//
//	[
//	  {"type": "dir", "path": "src/components"},
//	  {"type": "file", "path": "src/components/App.ts", "content": "export default {}"},
//	  {"type": "file", "path": "README.md", "sources": [{"type": "http", "url": "https://..."}]}
//	]
//
// Invalid entries are skipped and reported together in the returned error;
// the manifest of valid entries is returned alongside it.
func ParseManifest(data []byte, format Format, r *adapters.Registry) (*Manifest, error) {
	var rawNodes []json.RawMessage
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &rawNodes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
		}
	case FormatYAML:
		var err error
		if rawNodes, err = yamlToRawNodes(data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown manifest format: %s", format)
	}
	return ParseNodes(rawNodes, r)
}

// ParseNodes converts raw JSON node entries into a [Manifest].
// See [ParseManifest] for error semantics.
func ParseNodes(rawNodes []json.RawMessage, r *adapters.Registry) (*Manifest, error) {
	logger := util.GetLogger("ParseNodes")

	m := &Manifest{}
	var errs *multierror.Error
	for i, rawNode := range rawNodes {
		nodeType, err := GetNodeType(rawNode)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("node %d: %w", i, err))
			continue
		}

		switch nodeType {
		case editorfs.FileNodeType:
			req, err := UnmarshalFileRequest(rawNode, r)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("node %d: %w", i, err))
				continue
			}
			m.Files = append(m.Files, req)
			logger.Trace().Str("path", req.Path).Msg("Processed file request")
		case editorfs.DirNodeType:
			req, err := UnmarshalDirRequest(rawNode)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("node %d: %w", i, err))
				continue
			}
			m.Dirs = append(m.Dirs, req)
			logger.Trace().Str("path", req.Path).Msg("Processed directory request")
		default:
			errs = multierror.Append(errs, fmt.Errorf("node %d: unknown node type %q", i, nodeType))
		}
	}

	logger.Debug().
		Int("files", len(m.Files)).
		Int("directories", len(m.Dirs)).
		Msg("Parsed manifest")
	return m, errs.ErrorOrNil()
}

// yamlToRawNodes re-encodes each YAML entry as JSON so both formats share
// one unmarshaling path, including source configs handed to providers.
func yamlToRawNodes(data []byte) ([]json.RawMessage, error) {
	var nodes []map[string]any
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	rawNodes := make([]json.RawMessage, 0, len(nodes))
	for i, node := range nodes {
		raw, err := json.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		rawNodes = append(rawNodes, raw)
	}
	return rawNodes, nil
}
