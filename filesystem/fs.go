package filesystem

import (
	"sync"
	"sync/atomic"

	"github.com/brettbedarf/editorfs/internal/util"
)

// RootIno is the inode number of every tree's root directory
const RootIno uint64 = 1

// Tree is the in-memory directory/file hierarchy behind the file explorer.
//
// All operations are serialized by a single tree-wide lock: mutations hold it
// exclusively, reads share it. Creation operations check the whole path before
// touching anything so a failed call leaves the tree unchanged.
type Tree struct {
	mu      sync.RWMutex
	root    *DirNode      // Root of node tree
	lastIno atomic.Uint64 // Last inode number assigned; incremented when new nodes are created
}

// New returns a tree holding only an empty root directory
func New() *Tree {
	t := &Tree{}
	t.lastIno.Store(RootIno)
	t.root = newDirNode(t, "", RootIno)
	return t
}

// Root returns the root directory for traversal
func (t *Tree) Root() *DirNode {
	return t.root
}

// Mkdir creates the directory at path along with any missing ancestors,
// like `mkdir -p`. Existing directories are reused, so repeating the call is
// a no-op. It fails with a [ConflictError] if any segment is already a file.
// The empty path returns the root.
func (t *Tree) Mkdir(path string) (*DirNode, error) {
	logger := util.GetLogger("Tree.Mkdir")

	segs, err := SplitPath(path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Rejected path")
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkDirsLocked(segs); err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to create directory")
		return nil, err
	}
	dir, newCnt := t.mkdirAllLocked(segs)
	if newCnt > 0 {
		logger.Debug().Str("path", dir.name).Int("created", newCnt).Msg("Created new dir(s)")
	}
	return dir, nil
}

// Mkfile writes content to the file at path. Missing ancestor directories are
// created as with [Tree.Mkdir]. An existing file is overwritten in place
// (last write wins). It fails with a [ConflictError] if the final segment is
// a directory or any ancestor segment is a file, and with [ErrInvalidPath]
// if path names the root.
func (t *Tree) Mkfile(path, content string) (*FileLeaf, error) {
	logger := util.GetLogger("Tree.Mkfile")

	segs, err := SplitPath(path)
	if err == nil && len(segs) == 0 {
		err = invalidRootFile(path)
	}
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Rejected path")
		return nil, err
	}
	dirSegs, name := segs[:len(segs)-1], segs[len(segs)-1]

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkDirsLocked(dirSegs); err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to create file's ancestor directory(s)")
		return nil, err
	}
	// Only an existing parent can hold a clashing directory
	if parent, ok := t.lookupDirLocked(dirSegs); ok {
		if d, ok := parent.dirs.get(name); ok {
			err := &ConflictError{Path: d.name, Existing: DirKind}
			logger.Debug().Err(err).Str("path", path).Msg("Failed to create file")
			return nil, err
		}
	}

	parent, _ := t.mkdirAllLocked(dirSegs)
	if leaf, ok := parent.files.get(name); ok {
		leaf.content = content
		logger.Debug().Str("path", leaf.name).Int("size", len(content)).Msg("Overwrote file")
		return leaf, nil
	}

	leaf := &FileLeaf{
		name:    parent.childPath(name),
		ino:     t.lastIno.Add(1),
		tree:    t,
		content: content,
	}
	parent.files.put(name, leaf)
	logger.Debug().Str("path", leaf.name).Int("size", len(content)).Msg("Added new file")
	return leaf, nil
}

// Resolve returns the directory or file at path. It fails with a
// [NotFoundError] if any segment is missing or an intermediate segment is a
// file.
func (t *Tree) Resolve(path string) (Entry, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(segs) == 0 {
		return t.root, nil
	}
	parent, ok := t.lookupDirLocked(segs[:len(segs)-1])
	if !ok {
		return nil, &NotFoundError{Path: JoinPath(segs...)}
	}
	if e, ok := parent.childLocked(segs[len(segs)-1]); ok {
		return e, nil
	}
	return nil, &NotFoundError{Path: JoinPath(segs...)}
}

// ResolveDir is [Tree.Resolve] narrowed to directories. A file at path is a
// [ConflictError].
func (t *Tree) ResolveDir(path string) (*DirNode, error) {
	e, err := t.Resolve(path)
	if err != nil {
		return nil, err
	}
	switch n := e.(type) {
	case *DirNode:
		return n, nil
	default:
		return nil, &ConflictError{Path: e.Name(), Existing: FileKind}
	}
}

// ResolveFile is [Tree.Resolve] narrowed to files. A directory at path is a
// [ConflictError].
func (t *Tree) ResolveFile(path string) (*FileLeaf, error) {
	e, err := t.Resolve(path)
	if err != nil {
		return nil, err
	}
	switch n := e.(type) {
	case *FileLeaf:
		return n, nil
	default:
		return nil, &ConflictError{Path: e.Name(), Existing: DirKind}
	}
}

// Stats counts the nodes below the root
type Stats struct {
	Dirs  int `json:"dirs"`
	Files int `json:"files"`
}

// Stats walks the tree and counts its directories and files
func (t *Tree) Stats() Stats {
	var s Stats
	for _, e := range t.Walk() {
		if e.IsDir() {
			s.Dirs++
		} else {
			s.Files++
		}
	}
	return s
}

// checkDirsLocked verifies that every existing segment of segs is a
// directory. Caller must hold t.mu.
func (t *Tree) checkDirsLocked(segs []string) error {
	cur := t.root
	for _, seg := range segs {
		if f, ok := cur.files.get(seg); ok {
			return &ConflictError{Path: f.name, Existing: FileKind}
		}
		next, ok := cur.dirs.get(seg)
		if !ok {
			// the rest of the path is new
			return nil
		}
		cur = next
	}
	return nil
}

// lookupDirLocked walks segs through existing directories only.
// Caller must hold t.mu.
func (t *Tree) lookupDirLocked(segs []string) (*DirNode, bool) {
	cur := t.root
	for _, seg := range segs {
		next, ok := cur.dirs.get(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// mkdirAllLocked creates the missing directories of segs and returns the
// last one along with how many were created. Callers must have validated segs
// with checkDirsLocked and hold t.mu exclusively.
func (t *Tree) mkdirAllLocked(segs []string) (*DirNode, int) {
	cur := t.root
	newCnt := 0
	for _, seg := range segs {
		if next, ok := cur.dirs.get(seg); ok {
			cur = next
			continue
		}
		node := newDirNode(t, cur.childPath(seg), t.lastIno.Add(1))
		cur.dirs.put(seg, node)
		cur = node
		newCnt++
	}
	return cur, newCnt
}
