package filesystem

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walkLine is a comparable rendering of one Walk step
type walkLine struct {
	Depth int
	Name  string
	Dir   bool
}

func collectWalk(n *DirNode) []walkLine {
	lines := []walkLine{}
	for depth, e := range n.Walk() {
		lines = append(lines, walkLine{Depth: depth, Name: e.Name(), Dir: e.IsDir()})
	}
	return lines
}

// createDir creates a directory and fails the test on error
func createDir(t *testing.T, tree *Tree, path string) *DirNode {
	t.Helper()
	dir, err := tree.Mkdir(path)
	require.NoError(t, err)
	return dir
}

// createFile creates a file and fails the test on error
func createFile(t *testing.T, tree *Tree, path, content string) *FileLeaf {
	t.Helper()
	leaf, err := tree.Mkfile(path, content)
	require.NoError(t, err)
	return leaf
}

func TestNew(t *testing.T) {
	t.Parallel()

	tree := New()

	require.NotNil(t, tree.Root())
	assert.Equal(t, "", tree.Root().Name())
	assert.Equal(t, RootDisplayName, tree.Root().DisplayName())
	assert.Equal(t, RootIno, tree.Root().Ino())
	assert.True(t, tree.Root().IsRoot())
}

func TestTree_EmptyRootTraversal(t *testing.T) {
	t.Parallel()

	root := New().Root()

	dirCnt, fileCnt := 0, 0
	for range root.Dirs() {
		dirCnt++
	}
	for range root.Files() {
		fileCnt++
	}
	assert.Zero(t, dirCnt)
	assert.Zero(t, fileCnt)
	assert.Empty(t, collectWalk(root))
}

func TestTree_Mkdir(t *testing.T) {
	t.Parallel()

	t.Run("SingleDirectory", func(t *testing.T) {
		t.Parallel()
		tree := New()

		dir := createDir(t, tree, "testdir")

		assert.Equal(t, "testdir", dir.Name())
		assert.Equal(t, "testdir", dir.DisplayName())
		assert.Equal(t, 1, tree.Root().NumDirs())
	})

	t.Run("NestedDirectories", func(t *testing.T) {
		t.Parallel()
		tree := New()

		dir := createDir(t, tree, "a/b/c")
		assert.Equal(t, "a/b/c", dir.Name())

		for _, p := range []string{"a", "a/b", "a/b/c"} {
			got, err := tree.ResolveDir(p)
			require.NoError(t, err, "intermediate %s must exist", p)
			assert.Equal(t, p, got.Name())
			assert.Equal(t, DisplayName(p), got.DisplayName())
		}
	})

	t.Run("NormalizesPath", func(t *testing.T) {
		t.Parallel()
		tree := New()

		dir := createDir(t, tree, "//x//y/")

		assert.Equal(t, "x/y", dir.Name())
		again := createDir(t, tree, "x/y")
		assert.Same(t, dir, again)
	})

	t.Run("EmptyPathIsRoot", func(t *testing.T) {
		t.Parallel()
		tree := New()

		dir := createDir(t, tree, "")

		assert.Same(t, tree.Root(), dir)
		assert.Same(t, tree.Root(), createDir(t, tree, "/"))
	})

	t.Run("InvalidPath", func(t *testing.T) {
		t.Parallel()
		tree := New()

		_, err := tree.Mkdir("a/../b")

		assert.ErrorIs(t, err, ErrInvalidPath)
		assert.Zero(t, tree.Root().NumDirs())
	})
}

func TestTree_Mkdir_Idempotent(t *testing.T) {
	t.Parallel()

	once := New()
	createDir(t, once, "a/b/c")

	twice := New()
	first := createDir(t, twice, "a/b/c")
	second := createDir(t, twice, "a/b/c")

	assert.Same(t, first, second)
	assert.Equal(t, once.Stats(), twice.Stats())
	if diff := cmp.Diff(collectWalk(once.Root()), collectWalk(twice.Root())); diff != "" {
		t.Fatalf("tree differs after repeated mkdir: %s", diff)
	}
}

func TestTree_Mkdir_ConflictWithFile(t *testing.T) {
	t.Parallel()

	tree := New()
	createFile(t, tree, "a/b.txt", "hi")
	before := collectWalk(tree.Root())

	_, err := tree.Mkdir("a/b.txt")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "a/b.txt", conflict.Path)
	assert.Equal(t, FileKind, conflict.Existing)
	assert.Contains(t, err.Error(), "path already exists as a file")

	_, err = tree.Mkdir("a/b.txt/deeper/still")
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, before, collectWalk(tree.Root()), "failed mkdir must not change the tree")
}

func TestTree_Mkfile(t *testing.T) {
	t.Parallel()

	t.Run("FileInRoot", func(t *testing.T) {
		t.Parallel()
		tree := New()

		leaf := createFile(t, tree, "test.txt", "content")

		assert.Equal(t, "test.txt", leaf.Name())
		assert.Equal(t, "content", leaf.Content())
		assert.Equal(t, len("content"), leaf.Size())
		assert.Equal(t, 1, tree.Root().NumFiles())
		assert.Zero(t, tree.Root().NumDirs())
	})

	t.Run("FileInNestedPath", func(t *testing.T) {
		t.Parallel()
		tree := New()

		leaf := createFile(t, tree, "/nested/path/file.txt", "")

		assert.Equal(t, "nested/path/file.txt", leaf.Name())
		assert.Equal(t, "file.txt", leaf.DisplayName())
		assert.Equal(t, "", leaf.Content())

		dir, err := tree.ResolveDir("nested/path")
		require.NoError(t, err)
		assert.Equal(t, 1, dir.NumFiles())
	})

	t.Run("ResolveReturnsContent", func(t *testing.T) {
		t.Parallel()
		tree := New()
		createFile(t, tree, "docs/readme.md", "# hello")

		leaf, err := tree.ResolveFile("docs/readme.md")

		require.NoError(t, err)
		assert.Equal(t, "# hello", leaf.Content())
	})

	t.Run("RootIsNotAFile", func(t *testing.T) {
		t.Parallel()
		tree := New()

		for _, p := range []string{"", "/", "//"} {
			_, err := tree.Mkfile(p, "x")
			assert.ErrorIs(t, err, ErrInvalidPath, "path %q", p)
		}
	})
}

func TestTree_Mkfile_Overwrite(t *testing.T) {
	t.Parallel()

	tree := New()
	first := createFile(t, tree, "a/f.txt", "one")

	second := createFile(t, tree, "a/f.txt", "two")

	assert.Same(t, first, second, "overwrite must keep the same leaf")
	assert.Equal(t, "two", second.Content())
	dir, err := tree.ResolveDir("a")
	require.NoError(t, err)
	assert.Equal(t, 1, dir.NumFiles())
	assert.Equal(t, Stats{Dirs: 1, Files: 1}, tree.Stats())
}

func TestTree_Mkfile_ConflictWithDir(t *testing.T) {
	t.Parallel()

	tree := New()
	createDir(t, tree, "a")
	before := collectWalk(tree.Root())

	_, err := tree.Mkfile("a", "x")

	require.Error(t, err)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, DirKind, conflict.Existing)
	assert.Equal(t, "a", conflict.Path)
	assert.Equal(t, before, collectWalk(tree.Root()), "failed mkfile must not change the tree")
}

func TestTree_Mkfile_AllOrNothing(t *testing.T) {
	t.Parallel()

	tree := New()
	createFile(t, tree, "a/b", "file in the way")
	before := collectWalk(tree.Root())
	beforeStats := tree.Stats()

	_, err := tree.Mkfile("a/b/c/d/e.txt", "x")

	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, before, collectWalk(tree.Root()))
	assert.Equal(t, beforeStats, tree.Stats())
	_, err = tree.Resolve("a/b/c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTree_Resolve(t *testing.T) {
	t.Parallel()

	tree := New()
	createDir(t, tree, "src/components")
	createFile(t, tree, "src/components/App.ts", "export default {}")

	t.Run("Root", func(t *testing.T) {
		t.Parallel()
		e, err := tree.Resolve("/")
		require.NoError(t, err)
		assert.Same(t, tree.Root(), e)
	})

	t.Run("Directory", func(t *testing.T) {
		t.Parallel()
		e, err := tree.Resolve("src/components/")
		require.NoError(t, err)
		assert.True(t, e.IsDir())
		assert.Equal(t, "components", e.DisplayName())
	})

	t.Run("File", func(t *testing.T) {
		t.Parallel()
		e, err := tree.Resolve("src/components/App.ts")
		require.NoError(t, err)
		assert.False(t, e.IsDir())
	})

	t.Run("MissingIntermediate", func(t *testing.T) {
		t.Parallel()
		_, err := tree.Resolve("src/missing/App.ts")
		require.Error(t, err)
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "src/missing/App.ts", nf.Path)
	})

	t.Run("MissingLeaf", func(t *testing.T) {
		t.Parallel()
		_, err := tree.Resolve("src/nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("FileAsIntermediate", func(t *testing.T) {
		t.Parallel()
		_, err := tree.Resolve("src/components/App.ts/x")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("KindMismatch", func(t *testing.T) {
		t.Parallel()
		_, err := tree.ResolveDir("src/components/App.ts")
		assert.ErrorIs(t, err, ErrConflict)
		_, err = tree.ResolveFile("src")
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestTree_ExplorerScenario(t *testing.T) {
	t.Parallel()

	tree := New()
	createDir(t, tree, "src/components")
	createFile(t, tree, "src/components/App.ts", "export default {}")

	src, err := tree.ResolveDir("src")
	require.NoError(t, err)
	var srcDirs []string
	for name := range src.Dirs() {
		srcDirs = append(srcDirs, name)
	}
	assert.Equal(t, []string{"components"}, srcDirs)
	assert.Zero(t, src.NumFiles())

	comps, err := tree.ResolveDir("src/components")
	require.NoError(t, err)
	assert.Zero(t, comps.NumDirs())
	var files []*FileLeaf
	for name, f := range comps.Files() {
		assert.Equal(t, "App.ts", name)
		files = append(files, f)
	}
	require.Len(t, files, 1)
	assert.Equal(t, "App.ts", files[0].DisplayName())
	assert.Equal(t, "export default {}", files[0].Content())
}

func TestTree_WalkOrder(t *testing.T) {
	t.Parallel()

	tree := New()
	createFile(t, tree, "README.md", "")
	createDir(t, tree, "src/b")
	createFile(t, tree, "src/main.ts", "")
	createDir(t, tree, "src/a")
	createFile(t, tree, "src/b/util.ts", "")
	createDir(t, tree, "docs")

	want := []walkLine{
		{0, "src", true},
		{1, "src/b", true},
		{2, "src/b/util.ts", false},
		{1, "src/a", true},
		{1, "src/main.ts", false},
		{0, "docs", true},
		{0, "README.md", false},
	}

	if diff := cmp.Diff(want, collectWalk(tree.Root())); diff != "" {
		t.Fatalf("unexpected walk order (-want +got):\n%s", diff)
	}
	// restartable: a second pass yields the same sequence
	if diff := cmp.Diff(want, collectWalk(tree.Root())); diff != "" {
		t.Fatalf("second walk differs (-want +got):\n%s", diff)
	}
}

func TestTree_WalkEarlyStop(t *testing.T) {
	t.Parallel()

	tree := New()
	createDir(t, tree, "a/b/c")
	createFile(t, tree, "z.txt", "")

	seen := 0
	for range tree.Walk() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestTree_MutateDuringIteration(t *testing.T) {
	t.Parallel()

	tree := New()
	createDir(t, tree, "a")
	createDir(t, tree, "b")

	var names []string
	for name := range tree.Root().Dirs() {
		names = append(names, name)
		createDir(t, tree, name+"/child")
	}

	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, Stats{Dirs: 4}, tree.Stats())
}

func TestTree_InoUnique(t *testing.T) {
	t.Parallel()

	tree := New()
	createDir(t, tree, "a/b")
	createFile(t, tree, "a/b/c.txt", "")
	createFile(t, tree, "d.txt", "")

	seen := map[uint64]string{tree.Root().Ino(): ""}
	for _, e := range tree.Walk() {
		prev, dup := seen[e.Ino()]
		require.False(t, dup, "ino %d shared by %q and %q", e.Ino(), prev, e.Name())
		seen[e.Ino()] = e.Name()
	}
	assert.Len(t, seen, 5)
}

func TestTree_ConcurrentMkdir(t *testing.T) {
	t.Parallel()

	tree := New()
	var wg sync.WaitGroup
	errs := make(chan error, 2*20)

	for i := range 20 {
		wg.Go(func() {
			_, err := tree.Mkdir("a/b/c")
			errs <- err
			_, err = tree.Mkfile(fmt.Sprintf("a/b/c/f%d.txt", i), "x")
			errs <- err
		})
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, Stats{Dirs: 3, Files: 20}, tree.Stats())
}
