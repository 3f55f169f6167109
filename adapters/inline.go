package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brettbedarf/editorfs"
)

// ErrContentTooLarge is returned when a source's content exceeds the
// configured maximum size
var ErrContentTooLarge = errors.New("content exceeds maximum size")

// InlineSource is content embedded directly in the manifest:
//
//	{"type": "inline", "text": "export default {}"}
type InlineSource struct {
	Text string `json:"text"`
}

func (s *InlineSource) Fetch(context.Context) (string, error) {
	return s.Text, nil
}

// InlineProvider builds [InlineSource]s. MaxSize <= 0 disables the limit.
type InlineProvider struct {
	MaxSize int
}

func (p *InlineProvider) Source(raw []byte) (editorfs.ContentSource, error) {
	var src InlineSource
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, err
	}
	if p.MaxSize > 0 && len(src.Text) > p.MaxSize {
		return nil, fmt.Errorf("%w: inline text is %d bytes, limit %d", ErrContentTooLarge, len(src.Text), p.MaxSize)
	}
	return &src, nil
}

var (
	_ editorfs.ContentSource  = (*InlineSource)(nil)
	_ editorfs.SourceProvider = (*InlineProvider)(nil)
)
