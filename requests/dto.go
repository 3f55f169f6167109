package requests

import (
	"encoding/json"

	"github.com/brettbedarf/editorfs"
)

// NodeRequestDTO is the JSON representation of [editorfs.NodeRequest]
type NodeRequestDTO struct {
	Path string            `json:"path"`
	Type editorfs.NodeType `json:"type"`
	UUID *string           `json:"uuid,omitempty"` // Optional; generated when absent
}

// FileRequestDTO is the JSON representation of [editorfs.FileCreateRequest].
// At most one of Content and Sources may be set.
type FileRequestDTO struct {
	NodeRequestDTO
	Content *string           `json:"content,omitempty"`
	Sources []json.RawMessage `json:"sources,omitempty"`
}

type DirRequestDTO struct {
	NodeRequestDTO
}

// SourceConfigDTO is the JSON representation of static source fields.
//
// Additional fields depend on the "type" value:
//
// Ex. For type="http" (see [adapters.HTTPSourceConfig]):
//
//	URL     string            `json:"url"`
//	Headers map\[string\]string `json:"headers,omitempty"`
//
// See adapters package for built-ins complete field specifications.
type SourceConfigDTO struct {
	Type     string `json:"type"`
	Priority *int   `json:"priority,omitempty"` // Lower number = higher priority, defaults to array index
}
