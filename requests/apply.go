package requests

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"

	"github.com/brettbedarf/editorfs"
	"github.com/brettbedarf/editorfs/adapters"
	"github.com/brettbedarf/editorfs/filesystem"
	"github.com/brettbedarf/editorfs/internal/util"
)

// ErrSourceUnavailable is returned when none of a file's sources could
// provide its content
var ErrSourceUnavailable = errors.New("no source could provide content")

// Result counts the requests that were applied successfully
type Result struct {
	Dirs  int `json:"dirs"`
	Files int `json:"files"`
}

// Apply creates every directory and then every file of m in tree.
// A failing request does not stop the others; all failures are returned
// together and the successful requests stay applied.
func (m *Manifest) Apply(ctx context.Context, tree *filesystem.Tree) (Result, error) {
	logger := util.GetLogger("Manifest.Apply")

	var res Result
	var errs *multierror.Error
	for _, req := range m.Dirs {
		if _, err := tree.Mkdir(req.Path); err != nil {
			logger.Debug().Err(err).Str("path", req.Path).Msg("Failed to add directory request")
			errs = multierror.Append(errs, fmt.Errorf("dir %q: %w", req.Path, err))
			continue
		}
		res.Dirs++
	}

	for _, req := range m.Files {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}
		content, err := ResolveContent(ctx, req)
		if err != nil {
			logger.Debug().Err(err).Str("path", req.Path).Msg("Failed to resolve file content")
			errs = multierror.Append(errs, fmt.Errorf("file %q: %w", req.Path, err))
			continue
		}
		if m.MaxContentSize > 0 && len(content) > m.MaxContentSize {
			err := fmt.Errorf("%w: %d bytes, limit %d", adapters.ErrContentTooLarge, len(content), m.MaxContentSize)
			logger.Debug().Err(err).Str("path", req.Path).Msg("Rejected file content")
			errs = multierror.Append(errs, fmt.Errorf("file %q: %w", req.Path, err))
			continue
		}
		if _, err := tree.Mkfile(req.Path, content); err != nil {
			logger.Debug().Err(err).Str("path", req.Path).Msg("Failed to add file request")
			errs = multierror.Append(errs, fmt.Errorf("file %q: %w", req.Path, err))
			continue
		}
		res.Files++
	}

	logger.Info().Int("directories", res.Dirs).Int("files", res.Files).Msg("Added new nodes to filesystem")
	return res, errs.ErrorOrNil()
}

// ResolveContent returns the inline content of req, or the content of the
// first of its sources, by ascending priority, that fetches successfully.
func ResolveContent(ctx context.Context, req *editorfs.FileCreateRequest) (string, error) {
	if len(req.Sources) == 0 {
		return req.Content, nil
	}
	logger := util.GetLogger("ResolveContent")

	sources := slices.Clone(req.Sources)
	slices.SortStableFunc(sources, func(a, b editorfs.FileSource) int {
		return a.Priority - b.Priority
	})

	var errs *multierror.Error
	for _, fs := range sources {
		src, err := fs.Source()
		if err != nil {
			logger.Debug().Err(err).Int("priority", fs.Priority).Msg("Failed to create source")
			errs = multierror.Append(errs, err)
			continue
		}
		content, err := src.Fetch(ctx)
		if err != nil {
			logger.Debug().Err(err).Int("priority", fs.Priority).Msg("Failed to fetch source")
			errs = multierror.Append(errs, err)
			continue
		}
		return content, nil
	}
	return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, errs.ErrorOrNil())
}
