// Package walk enumerates directory trees lazily, with extension
// allowlists, per-directory pruning, symlink policy, and per-entry error
// redirection. Traversal is depth-first and top-down; everything runs on
// the caller's goroutine.
package walk

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moltenform/fileops/pathutil"
)

// Filter governs which entries are yielded and which directories are
// descended into.
type Filter struct {
	// AllowedExts restricts yielded entries to these extensions
	// (case-insensitive, with or without the leading dot). Empty means
	// no restriction. Descent is unaffected.
	AllowedExts []string

	// DirFilter, when set, is evaluated once per candidate directory
	// before descent. A directory it rejects is neither descended into
	// nor yielded.
	DirFilter func(path string) bool

	// FollowSymlinks descends into symlinked directories. Off by
	// default, which makes symlink cycles impossible.
	FollowSymlinks bool

	// IncludeFiles / IncludeDirs select which entry kinds are yielded.
	// When both are false, files are yielded.
	IncludeFiles bool
	IncludeDirs  bool

	// OnError receives per-entry errors (unreadable subtree, entry
	// vanished mid-walk) and lets the traversal continue. When nil, the
	// first error aborts the traversal and is reported by Walker.Err.
	OnError func(path string, err error)
}

func (f Filter) extSet() map[string]struct{} {
	if len(f.AllowedExts) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(f.AllowedExts))
	for _, ext := range f.AllowedExts {
		set[strings.ToLower(stripDot(ext))] = struct{}{}
	}
	return set
}

func stripDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}

// Entry is a single filesystem entry produced by a traversal.
type Entry struct {
	Path  string
	Name  string
	IsDir bool

	meta *entryMeta
}

// entryMeta defers the stat call until metadata is first requested, and
// caches it so each entry costs at most one stat.
type entryMeta struct {
	dirent fs.DirEntry
	info   fs.FileInfo
	err    error
	done   bool
}

func newEntry(path string, dirent fs.DirEntry, isDir bool) Entry {
	return Entry{
		Path:  path,
		Name:  dirent.Name(),
		IsDir: isDir,
		meta:  &entryMeta{dirent: dirent},
	}
}

func (e Entry) stat() (fs.FileInfo, error) {
	if e.meta == nil {
		return nil, fmt.Errorf("no metadata for %s", e.Path)
	}
	if !e.meta.done {
		e.meta.info, e.meta.err = e.meta.dirent.Info()
		e.meta.done = true
	}
	return e.meta.info, e.meta.err
}

// Size returns the entry's size in bytes.
func (e Entry) Size() (int64, error) {
	info, err := e.stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ModTime returns the entry's modification time.
func (e Entry) ModTime() (time.Time, error) {
	info, err := e.stat()
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// ListChildren enumerates a single directory level, sorted
// lexicographically by name. Unlike recursion, a zero IncludeFiles/
// IncludeDirs pair yields both kinds.
func ListChildren(dir string, f Filter) ([]Entry, error) {
	dirents, err := os.ReadDir(dir) // sorted by filename
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", dir, err)
	}

	includeFiles, includeDirs := f.IncludeFiles, f.IncludeDirs
	if !includeFiles && !includeDirs {
		includeFiles, includeDirs = true, true
	}
	exts := f.extSet()

	var out []Entry
	for _, dirent := range dirents {
		path := filepath.Join(dir, dirent.Name())
		isDir, _ := resolveDir(dirent, path, f.FollowSymlinks)
		if isDir && !includeDirs {
			continue
		}
		if !isDir && !includeFiles {
			continue
		}
		if !allowExt(dirent.Name(), exts) {
			continue
		}
		out = append(out, newEntry(path, dirent, isDir))
	}
	return out, nil
}

// Walker drives one lazy traversal. It is not a rewindable cursor:
// iterating again re-reads live filesystem state from scratch.
type Walker struct {
	root string
	f    Filter
	exts map[string]struct{}
	err  error
}

// Walk prepares a traversal of root with f. When neither IncludeFiles
// nor IncludeDirs is set, files are yielded.
func Walk(root string, f Filter) *Walker {
	if !f.IncludeFiles && !f.IncludeDirs {
		f.IncludeFiles = true
	}
	return &Walker{root: root, f: f, exts: f.extSet()}
}

// Files prepares a traversal yielding matching files under root.
func Files(root string, f Filter) *Walker {
	f.IncludeFiles = true
	f.IncludeDirs = false
	return Walk(root, f)
}

// Dirs prepares a traversal yielding matching directories under root.
func Dirs(root string, f Filter) *Walker {
	f.IncludeFiles = false
	f.IncludeDirs = true
	return Walk(root, f)
}

// Entries returns the lazy depth-first sequence. A directory entry is
// yielded before its children are visited, so pruning decisions take
// effect before descent. Check Err after iteration completes.
func (w *Walker) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		w.err = nil
		info, err := os.Stat(w.root)
		if err != nil {
			w.redirect(w.root, err)
			return
		}
		if !info.IsDir() {
			w.redirect(w.root, fmt.Errorf("%s is not a directory", w.root))
			return
		}
		w.walkDir(w.root, yield)
	}
}

// Err reports the error that aborted the most recent iteration, if any.
// Always nil when an OnError callback is redirecting errors.
func (w *Walker) Err() error { return w.err }

// walkDir returns false when iteration should stop, either because the
// consumer broke out or because an error aborted the walk.
func (w *Walker) walkDir(dir string, yield func(Entry) bool) bool {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return w.redirect(dir, err)
	}

	for _, dirent := range dirents {
		path := filepath.Join(dir, dirent.Name())
		isDir, descend := resolveDir(dirent, path, w.f.FollowSymlinks)

		if isDir {
			if w.f.DirFilter != nil && !w.f.DirFilter(path) {
				continue
			}
			if w.f.IncludeDirs && allowExt(dirent.Name(), w.exts) {
				if !yield(newEntry(path, dirent, true)) {
					return false
				}
			}
			if descend && !w.walkDir(path, yield) {
				return false
			}
		} else if w.f.IncludeFiles && allowExt(dirent.Name(), w.exts) {
			if !yield(newEntry(path, dirent, false)) {
				return false
			}
		}
	}
	return true
}

// redirect routes a per-entry error to the callback when one is set;
// otherwise it records the error and aborts the walk.
func (w *Walker) redirect(path string, err error) bool {
	if w.f.OnError != nil {
		w.f.OnError(path, err)
		return true
	}
	w.err = err
	return false
}

// resolveDir classifies an entry. A symlink whose target is a directory
// is a directory either way; it is descended into only when the filter
// follows symlinks. A broken symlink classifies as a file.
func resolveDir(dirent fs.DirEntry, path string, followSymlinks bool) (isDir, descend bool) {
	if dirent.IsDir() {
		return true, true
	}
	if dirent.Type()&fs.ModeSymlink != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return true, followSymlinks
		}
	}
	return false, false
}

func allowExt(name string, exts map[string]struct{}) bool {
	if exts == nil {
		return true
	}
	_, ok := exts[pathutil.Ext(name, true)]
	return ok
}
