package adapters

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brettbedarf/editorfs"
	"github.com/brettbedarf/editorfs/internal/util"
	"github.com/puzpuzpuz/xsync/v4"
)

// ErrUnknownSourceType is returned for a source "type" with no registered provider
var ErrUnknownSourceType = errors.New("unknown source type")

// Registry maps a source config's "type" field to the provider that builds it.
// It is safe for concurrent use.
type Registry struct {
	providers *xsync.Map[string, editorfs.SourceProvider]
}

func NewRegistry() *Registry {
	return &Registry{providers: xsync.NewMap[string, editorfs.SourceProvider]()}
}

// Register ties a provider to a "type" key. The first registration for a key
// wins; later ones are ignored and reported with false.
func (r *Registry) Register(sourceType string, provider editorfs.SourceProvider) bool {
	_, loaded := r.providers.LoadOrStore(sourceType, provider)
	if loaded {
		logger := util.GetLogger("Registry.Register")
		logger.Warn().Str("type", sourceType).Msg("Source type already registered; ignoring")
	}
	return !loaded
}

// GetProvider returns the provider registered for sourceType
func (r *Registry) GetProvider(sourceType string) (editorfs.SourceProvider, error) {
	if p, ok := r.providers.Load(sourceType); ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSourceType, sourceType)
}

// SourceType extracts the "type" field of a raw source config
func SourceType(raw []byte) (string, error) {
	var meta struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return "", err
	}
	if meta.Type == "" {
		return "", fmt.Errorf("source config missing \"type\" field")
	}
	return meta.Type, nil
}

// FileSource resolves the provider for raw and pairs them for deferred
// construction by the caller.
func (r *Registry) FileSource(raw []byte, priority int) (editorfs.FileSource, error) {
	sourceType, err := SourceType(raw)
	if err != nil {
		return editorfs.FileSource{}, err
	}
	provider, err := r.GetProvider(sourceType)
	if err != nil {
		return editorfs.FileSource{}, err
	}
	return editorfs.FileSource{Provider: provider, Config: raw, Priority: priority}, nil
}

// NewSource picks the provider based on the "type" field and builds the
// source from raw.
func (r *Registry) NewSource(raw []byte) (editorfs.ContentSource, error) {
	fs, err := r.FileSource(raw, 0)
	if err != nil {
		return nil, err
	}
	return fs.Source()
}
