package filesystem

import "iter"

// Entry is the read-only view shared by directories and files
type Entry interface {
	// Name returns the full normalized path of the node; "" for the root
	Name() string
	// DisplayName returns the last segment of Name, see [DisplayName]
	DisplayName() string
	// Ino returns the tree-unique inode number of the node
	Ino() uint64
	IsDir() bool
}

// children is an insertion ordered name index. Not thread-safe; the owning
// Tree's lock protects it.
type children[T any] struct {
	names  []string
	byName map[string]T
}

func newChildren[T any]() children[T] {
	return children[T]{byName: make(map[string]T)}
}

func (c *children[T]) get(name string) (T, bool) {
	v, ok := c.byName[name]
	return v, ok
}

// put registers v under name, keeping the original position if name exists
func (c *children[T]) put(name string, v T) {
	if _, ok := c.byName[name]; !ok {
		c.names = append(c.names, name)
	}
	c.byName[name] = v
}

func (c *children[T]) len() int {
	return len(c.names)
}

// snapshot copies the current names and values in insertion order
func (c *children[T]) snapshot() ([]string, []T) {
	names := make([]string, len(c.names))
	copy(names, c.names)
	vals := make([]T, len(names))
	for i, name := range names {
		vals[i] = c.byName[name]
	}
	return names, vals
}

// DirNode is a directory in a [Tree]. It exclusively owns its child
// directories and files.
type DirNode struct {
	name  string // full normalized path; immutable
	ino   uint64 // immutable
	tree  *Tree
	dirs  children[*DirNode]
	files children[*FileLeaf]
}

func newDirNode(t *Tree, name string, ino uint64) *DirNode {
	return &DirNode{
		name:  name,
		ino:   ino,
		tree:  t,
		dirs:  newChildren[*DirNode](),
		files: newChildren[*FileLeaf](),
	}
}

func (n *DirNode) Name() string        { return n.name }
func (n *DirNode) DisplayName() string { return DisplayName(n.name) }
func (n *DirNode) Ino() uint64         { return n.ino }
func (n *DirNode) IsDir() bool         { return true }

// IsRoot reports whether n is the root of its tree
func (n *DirNode) IsRoot() bool {
	return n.name == ""
}

// childPath returns the full path of a child segment of n
func (n *DirNode) childPath(seg string) string {
	if n.IsRoot() {
		return seg
	}
	return n.name + Separator + seg
}

// Dirs returns the child directories keyed by display name, in insertion
// order. The sequence is restartable; each iteration reads a fresh snapshot,
// so the tree may be mutated from inside the loop.
func (n *DirNode) Dirs() iter.Seq2[string, *DirNode] {
	return func(yield func(string, *DirNode) bool) {
		n.tree.mu.RLock()
		names, dirs := n.dirs.snapshot()
		n.tree.mu.RUnlock()

		for i, name := range names {
			if !yield(name, dirs[i]) {
				return
			}
		}
	}
}

// Files returns the child files keyed by display name, in insertion order.
// See [DirNode.Dirs] for iteration semantics.
func (n *DirNode) Files() iter.Seq2[string, *FileLeaf] {
	return func(yield func(string, *FileLeaf) bool) {
		n.tree.mu.RLock()
		names, files := n.files.snapshot()
		n.tree.mu.RUnlock()

		for i, name := range names {
			if !yield(name, files[i]) {
				return
			}
		}
	}
}

func (n *DirNode) NumDirs() int {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	return n.dirs.len()
}

func (n *DirNode) NumFiles() int {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	return n.files.len()
}

// Child returns the direct child directory or file named seg
func (n *DirNode) Child(seg string) (Entry, bool) {
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	return n.childLocked(seg)
}

func (n *DirNode) childLocked(seg string) (Entry, bool) {
	if d, ok := n.dirs.get(seg); ok {
		return d, true
	}
	if f, ok := n.files.get(seg); ok {
		return f, true
	}
	return nil, false
}

// FileLeaf is a file in a [Tree]. Its content is replaced, never appended, by
// [Tree.Mkfile].
type FileLeaf struct {
	name    string // full normalized path; immutable
	ino     uint64 // immutable
	tree    *Tree
	content string // protected by tree.mu
}

func (f *FileLeaf) Name() string        { return f.name }
func (f *FileLeaf) DisplayName() string { return DisplayName(f.name) }
func (f *FileLeaf) Ino() uint64         { return f.ino }
func (f *FileLeaf) IsDir() bool         { return false }

// Content returns the current text of the file
func (f *FileLeaf) Content() string {
	f.tree.mu.RLock()
	defer f.tree.mu.RUnlock()
	return f.content
}

// Size returns the content length in bytes
func (f *FileLeaf) Size() int {
	f.tree.mu.RLock()
	defer f.tree.mu.RUnlock()
	return len(f.content)
}

var (
	_ Entry = (*DirNode)(nil)
	_ Entry = (*FileLeaf)(nil)
)
