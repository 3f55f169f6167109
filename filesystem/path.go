package filesystem

import (
	"errors"
	"fmt"
	"strings"
)

// Separator is the only path separator understood by the tree
const Separator = "/"

// RootDisplayName is what the root directory renders as
const RootDisplayName = "/"

// ErrInvalidPath is returned for paths the tree can never hold
var ErrInvalidPath = errors.New("invalid path")

// SplitPath normalizes p and returns its segments in order.
// Leading, trailing and repeated separators are dropped, so "", "/" and "//"
// all name the root and yield no segments. "." and ".." segments are rejected
// since the tree has no notion of relative navigation.
func SplitPath(p string) ([]string, error) {
	raw := strings.Split(p, Separator)
	segs := make([]string, 0, len(raw))
	for _, seg := range raw {
		switch seg {
		case "":
			continue
		case ".", "..":
			return nil, fmt.Errorf("%w: %q contains a %q segment", ErrInvalidPath, p, seg)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// NormalizePath returns the canonical form of p: segments joined by a single
// separator with no leading or trailing separator. The root is "".
func NormalizePath(p string) (string, error) {
	segs, err := SplitPath(p)
	if err != nil {
		return "", err
	}
	return JoinPath(segs...), nil
}

// JoinPath joins already normalized segments
func JoinPath(segs ...string) string {
	return strings.Join(segs, Separator)
}

// DisplayName returns the last non-empty segment of p, or [RootDisplayName]
// when p names the root.
func DisplayName(p string) string {
	p = strings.TrimRight(p, Separator)
	if p == "" {
		return RootDisplayName
	}
	if i := strings.LastIndex(p, Separator); i >= 0 {
		return p[i+1:]
	}
	return p
}

func invalidRootFile(p string) error {
	return fmt.Errorf("%w: %q names the root directory, not a file", ErrInvalidPath, p)
}
