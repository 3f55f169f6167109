package requests

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/brettbedarf/editorfs"
	"github.com/brettbedarf/editorfs/adapters"
	"github.com/brettbedarf/editorfs/filesystem"
	"github.com/brettbedarf/editorfs/internal/util"
)

// GetNodeType extracts the node type from JSON without full unmarshaling
func GetNodeType(data []byte) (editorfs.NodeType, error) {
	var meta struct {
		Type editorfs.NodeType `json:"type"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", err
	}
	return meta.Type, nil
}

// UnmarshalFileRequest handles file-specific unmarshaling with inline content
// or sources resolved through r
func UnmarshalFileRequest(data []byte, r *adapters.Registry) (*editorfs.FileCreateRequest, error) {
	var dto FileRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}

	node, err := convertNodeDTO(dto.NodeRequestDTO, editorfs.FileNodeType)
	if err != nil {
		return nil, err
	}
	if node.Path == "" {
		return nil, fmt.Errorf("%w: file request has no path", filesystem.ErrInvalidPath)
	}
	if dto.Content != nil && len(dto.Sources) > 0 {
		return nil, fmt.Errorf("file %q: content and sources are mutually exclusive", node.Path)
	}

	sources, err := unmarshalSources(dto.Sources, r)
	if err != nil {
		return nil, fmt.Errorf("file %q: %w", node.Path, err)
	}

	return &editorfs.FileCreateRequest{
		NodeRequest: node,
		Content:     util.ValueOrDefault(dto.Content, ""),
		Sources:     sources,
	}, nil
}

// UnmarshalDirRequest handles explicit directory unmarshaling (no sources)
func UnmarshalDirRequest(data []byte) (*editorfs.DirCreateRequest, error) {
	var dto DirRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}

	node, err := convertNodeDTO(dto.NodeRequestDTO, editorfs.DirNodeType)
	if err != nil {
		return nil, err
	}
	return &editorfs.DirCreateRequest{NodeRequest: node}, nil
}

// Helper function to process the raw sources array
func unmarshalSources(rawSources []json.RawMessage, r *adapters.Registry) ([]editorfs.FileSource, error) {
	if len(rawSources) == 0 {
		return nil, nil
	}
	if r == nil {
		return nil, errors.New("sources given but no source registry configured")
	}

	sources := make([]editorfs.FileSource, 0, len(rawSources))
	for i, raw := range rawSources {
		var dto SourceConfigDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		// Apply priority default
		priority := util.ValueOrDefault(dto.Priority, i)

		source, err := r.FileSource(raw, priority)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		sources = append(sources, source)
	}

	return sources, nil
}

// Conversion logic with defaults in the unmarshaling layer
func convertNodeDTO(dto NodeRequestDTO, want editorfs.NodeType) (editorfs.NodeRequest, error) {
	if dto.Type != want {
		return editorfs.NodeRequest{}, fmt.Errorf("expected node type %q, got %q", want, dto.Type)
	}
	path, err := filesystem.NormalizePath(dto.Path)
	if err != nil {
		return editorfs.NodeRequest{}, err
	}

	return editorfs.NodeRequest{
		Path: path,
		Type: dto.Type,
		UUID: util.ValueOrDefault(dto.UUID, uuid.New().String()),
	}, nil
}
