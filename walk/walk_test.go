package walk

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), 0644))
}

// makeTree builds root/{a.txt, b.png, sub/c.txt, sub/deep/d.log, other/e.txt}.
func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "other"), 0755))
	touch(t, filepath.Join(root, "a.txt"))
	touch(t, filepath.Join(root, "b.png"))
	touch(t, filepath.Join(root, "sub", "c.txt"))
	touch(t, filepath.Join(root, "sub", "deep", "d.log"))
	touch(t, filepath.Join(root, "other", "e.txt"))
	return root
}

func collect(w *Walker) []string {
	var names []string
	for e := range w.Entries() {
		names = append(names, e.Name)
	}
	return names
}

func TestListChildrenSorted(t *testing.T) {
	root := makeTree(t)

	entries, err := ListChildren(root, Filter{})
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a.txt", "b.png", "other", "sub"}, names)
}

func TestListChildrenKinds(t *testing.T) {
	root := makeTree(t)

	files, err := ListChildren(root, Filter{IncludeFiles: true})
	require.NoError(t, err)
	for _, e := range files {
		assert.False(t, e.IsDir, e.Name)
	}
	assert.Len(t, files, 2)

	dirs, err := ListChildren(root, Filter{IncludeDirs: true})
	require.NoError(t, err)
	for _, e := range dirs {
		assert.True(t, e.IsDir, e.Name)
	}
	assert.Len(t, dirs, 2)
}

func TestListChildrenExtFilter(t *testing.T) {
	root := makeTree(t)

	// Dot and case are tolerated in the allowlist.
	for _, exts := range [][]string{{"txt"}, {".txt"}, {"TXT"}} {
		entries, err := ListChildren(root, Filter{IncludeFiles: true, AllowedExts: exts})
		require.NoError(t, err)
		require.Len(t, entries, 1, "%v", exts)
		assert.Equal(t, "a.txt", entries[0].Name)
	}
}

func TestFilesRecursiveExtFilter(t *testing.T) {
	root := makeTree(t)

	var paths []string
	w := Files(root, Filter{AllowedExts: []string{"txt"}})
	for e := range w.Entries() {
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}
	require.NoError(t, w.Err())

	assert.ElementsMatch(t, []string{"a.txt", "other/e.txt", "sub/c.txt"}, paths)
}

func TestDirsRecursive(t *testing.T) {
	root := makeTree(t)

	w := Dirs(root, Filter{})
	names := collect(w)
	require.NoError(t, w.Err())
	assert.ElementsMatch(t, []string{"other", "sub", "deep"}, names)
}

func TestWalkTopDownOrdering(t *testing.T) {
	root := makeTree(t)

	var paths []string
	w := Walk(root, Filter{IncludeFiles: true, IncludeDirs: true})
	for e := range w.Entries() {
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}
	require.NoError(t, w.Err())

	index := make(map[string]int, len(paths))
	for i, p := range paths {
		index[p] = i
	}
	// A directory is always yielded before anything inside it.
	assert.Less(t, index["sub"], index["sub/c.txt"])
	assert.Less(t, index["sub"], index["sub/deep"])
	assert.Less(t, index["sub/deep"], index["sub/deep/d.log"])
	assert.Less(t, index["other"], index["other/e.txt"])
}

func TestDirFilterPrunes(t *testing.T) {
	root := makeTree(t)

	w := Walk(root, Filter{
		IncludeFiles: true,
		IncludeDirs:  true,
		DirFilter: func(path string) bool {
			return filepath.Base(path) != "sub"
		},
	})
	names := collect(w)
	require.NoError(t, w.Err())

	// The rejected directory is neither yielded nor descended into.
	assert.NotContains(t, names, "sub")
	assert.NotContains(t, names, "c.txt")
	assert.NotContains(t, names, "deep")
	assert.NotContains(t, names, "d.log")
	assert.Contains(t, names, "a.txt")
	assert.Contains(t, names, "other")
	assert.Contains(t, names, "e.txt")
}

func TestSymlinkNotFollowedByDefault(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "real"), 0755))
	touch(t, filepath.Join(root, "real", "inside.txt"))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))

	// The link classifies as a directory, so a files walk neither yields
	// it nor descends into it.
	w := Files(root, Filter{})
	names := collect(w)
	require.NoError(t, w.Err())
	assert.ElementsMatch(t, []string{"inside.txt"}, names)

	// A dirs walk yields it without enumerating its target's contents.
	d := Dirs(root, Filter{})
	dirNames := collect(d)
	require.NoError(t, d.Err())
	assert.ElementsMatch(t, []string{"real", "link"}, dirNames)
}

func TestSymlinkFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "real"), 0755))
	touch(t, filepath.Join(root, "real", "inside.txt"))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))

	w := Files(root, Filter{FollowSymlinks: true})
	names := collect(w)
	require.NoError(t, w.Err())

	// Following the link visits inside.txt through both paths.
	assert.ElementsMatch(t, []string{"inside.txt", "inside.txt"}, names)
}

func TestUnreadableSubdirSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission checks")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Mkdir(locked, 0755))
	touch(t, filepath.Join(locked, "hidden.txt"))
	touch(t, filepath.Join(root, "visible.txt"))
	require.NoError(t, os.Chmod(locked, 0000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	var failed []string
	w := Files(root, Filter{OnError: func(path string, err error) {
		failed = append(failed, path)
	}})
	names := collect(w)

	// The unreadable subtree is reported once and skipped; siblings are
	// still enumerated and nothing aborts.
	require.NoError(t, w.Err())
	assert.Equal(t, []string{locked}, failed)
	assert.ElementsMatch(t, []string{"visible.txt"}, names)
}

func TestMissingRootAborts(t *testing.T) {
	root := filepath.Join(t.TempDir(), "absent")

	w := Files(root, Filter{})
	names := collect(w)
	assert.Empty(t, names)
	assert.Error(t, w.Err())
}

func TestMissingRootRedirected(t *testing.T) {
	root := filepath.Join(t.TempDir(), "absent")

	var gotPath string
	var gotErr error
	w := Files(root, Filter{OnError: func(path string, err error) {
		gotPath = path
		gotErr = err
	}})
	names := collect(w)

	assert.Empty(t, names)
	assert.NoError(t, w.Err(), "redirected errors never surface via Err")
	assert.Equal(t, root, gotPath)
	assert.Error(t, gotErr)
}

func TestFileRootRejected(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f.txt")
	touch(t, file)

	w := Files(file, Filter{})
	names := collect(w)
	assert.Empty(t, names)
	require.Error(t, w.Err())
	assert.True(t, strings.Contains(w.Err().Error(), "not a directory"))
}

func TestEntryMetadata(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0644))

	entries, err := ListChildren(root, Filter{IncludeFiles: true})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	size, err := entries[0].Size()
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	mtime, err := entries[0].ModTime()
	require.NoError(t, err)
	assert.False(t, mtime.IsZero())
}

func TestEarlyBreakStopsWalk(t *testing.T) {
	root := makeTree(t)

	var count int
	w := Files(root, Filter{})
	for range w.Entries() {
		count++
		break
	}
	require.NoError(t, w.Err())
	assert.Equal(t, 1, count)
}
