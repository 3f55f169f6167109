package editorfs

import "context"

// ContentSource supplies the text of a single file declared in a workspace
// manifest
type ContentSource interface {
	// Fetch returns the full content of the file
	Fetch(ctx context.Context) (string, error)
}

// SourceProvider is a factory for concrete [ContentSource] implementations
// generated from a source's raw JSON config.
// Implementations should handle resource management (clients etc) for their sources
type SourceProvider interface {
	Source(config []byte) (ContentSource, error)
}

// FileSource pairs a provider with the config it builds a [ContentSource] from
type FileSource struct {
	Provider SourceProvider
	Config   []byte
	Priority int // Lower number = higher priority
}

// Source builds the ContentSource described by s
func (s FileSource) Source() (ContentSource, error) {
	return s.Provider.Source(s.Config)
}
