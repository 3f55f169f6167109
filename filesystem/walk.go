package filesystem

import "iter"

// Walk returns the whole tree below the root as (depth, node) pairs.
// See [DirNode.Walk].
func (t *Tree) Walk() iter.Seq2[int, Entry] {
	return t.root.Walk()
}

// Walk yields every node below n in explorer order: pre-order, each
// directory's subdirectories (recursively) before its files, siblings in
// insertion order. Direct children of n have depth 0.
//
// The sequence is lazy and restartable. Every directory is snapshotted when
// it is reached, so nodes created mid-walk may or may not be seen.
func (n *DirNode) Walk() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		walkDir(n, 0, yield)
	}
}

func walkDir(n *DirNode, depth int, yield func(int, Entry) bool) bool {
	for _, d := range n.Dirs() {
		if !yield(depth, d) {
			return false
		}
		if !walkDir(d, depth+1, yield) {
			return false
		}
	}
	for _, f := range n.Files() {
		if !yield(depth, f) {
			return false
		}
	}
	return true
}
