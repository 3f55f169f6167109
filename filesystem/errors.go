package filesystem

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict matches every [ConflictError] with errors.Is
	ErrConflict = errors.New("conflicting node kind")
	// ErrNotFound matches every [NotFoundError] with errors.Is
	ErrNotFound = errors.New("no such file or directory")
)

// NodeKind distinguishes directories from files
type NodeKind int

const (
	DirKind NodeKind = iota
	FileKind
)

func (k NodeKind) String() string {
	switch k {
	case DirKind:
		return "directory"
	case FileKind:
		return "file"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// ConflictError reports a path segment that already exists with a different
// kind than the operation needs.
type ConflictError struct {
	Path     string   // normalized path of the clashing node
	Existing NodeKind // kind of the node already at Path
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("path already exists as a %s: %s", e.Existing, e.Path)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NotFoundError reports a lookup that hit a missing segment
type NotFoundError struct {
	Path string // the path that was looked up
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound, e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
