package adapters

import (
	"net/http"

	"github.com/brettbedarf/editorfs/config"
)

type BuiltInSourceType = string

const (
	InlineSourceType BuiltInSourceType = "inline"
	HTTPSourceType   BuiltInSourceType = "http"
)

// RegisterBuiltins registers all built-in providers on r by default
// or only the specific ones if keys are provided
func RegisterBuiltins(r *Registry, cfg *config.Config, sourceTypes ...BuiltInSourceType) {
	if len(sourceTypes) == 0 {
		sourceTypes = []BuiltInSourceType{InlineSourceType, HTTPSourceType}
	}

	for _, key := range sourceTypes {
		switch key {
		case InlineSourceType:
			r.Register(InlineSourceType, &InlineProvider{MaxSize: cfg.MaxContentSize})
		case HTTPSourceType:
			r.Register(HTTPSourceType, &HTTPProvider{
				Client:  http.DefaultClient,
				MaxSize: cfg.MaxContentSize,
				Timeout: cfg.FetchTimeoutDuration(),
			})
		}
	}
}
