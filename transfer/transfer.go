// Package transfer copies and moves files with an all-or-nothing outcome
// and a strict overwrite contract. A completed operation leaves either the
// fully-formed destination or no destination at all; a pre-existing
// destination is never altered when overwriting is not requested.
package transfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/moltenform/fileops/pathutil"
)

// copyBufferSize bounds memory use of the streaming fallback regardless
// of file size.
const copyBufferSize = 64 * 1024

// Request describes a single copy or move.
type Request struct {
	Src string
	Dst string

	// Overwrite permits replacing an existing destination. When false,
	// a pre-existing destination fails the operation and is left
	// untouched.
	Overwrite bool

	// AllowDirs permits Src to be a directory.
	AllowDirs bool

	// CreateParents creates the destination's parent directories first.
	CreateParents bool

	// PreserveDestModTime restores the destination's pre-copy
	// modification time after an overwriting copy. A copy never inherits
	// the source's timestamp.
	PreserveDestModTime bool
}

// Copy copies Src to Dst. Identical paths are a no-op success.
func Copy(req Request) error {
	srcInfo, err := os.Stat(req.Src)
	if err != nil {
		return opError("copy", req, condition(ErrSourceMissing, err))
	}
	if srcInfo.IsDir() && !req.AllowDirs {
		return opError("copy", req, fmt.Errorf("%w: %s is a directory", ErrSourceMissing, req.Src))
	}

	var restoreModTime time.Time
	restore := false
	if req.PreserveDestModTime && !srcInfo.IsDir() {
		if dstInfo, err := os.Stat(req.Dst); err == nil && !dstInfo.IsDir() {
			restoreModTime = dstInfo.ModTime()
			restore = true
		}
	}

	if samePath(req.Src, req.Dst) {
		return nil
	}

	if req.CreateParents {
		if err := MakeDirs(pathutil.Parent(req.Dst)); err != nil {
			return opError("copy", req, err)
		}
	}

	if srcInfo.IsDir() {
		if err := copyDir(req); err != nil {
			return opError("copy", req, err)
		}
	} else {
		if err := copyFilePlatform(req, srcInfo.Mode().Perm(), srcInfo.Size()); err != nil {
			return opError("copy", req, err)
		}
	}

	if restore {
		if err := SetModTime(req.Dst, restoreModTime); err != nil {
			return opError("copy", req, err)
		}
	}
	return nil
}

// Move moves Src to Dst. Identical paths are a no-op success. With
// Overwrite set, a same-volume move is a single atomic rename; across
// volumes it falls back to copy-then-delete, which is the one documented
// non-atomic window. Without Overwrite the destination is written via
// exclusive-create, so a racing writer cannot be clobbered.
func Move(req Request) error {
	srcInfo, err := os.Lstat(req.Src)
	if err != nil {
		return opError("move", req, condition(ErrSourceMissing, err))
	}
	if srcInfo.IsDir() && !req.AllowDirs {
		return opError("move", req, fmt.Errorf("%w: %s is a directory", ErrSourceMissing, req.Src))
	}

	if samePath(req.Src, req.Dst) {
		return nil
	}

	if req.CreateParents {
		if err := MakeDirs(pathutil.Parent(req.Dst)); err != nil {
			return opError("move", req, err)
		}
	}

	if req.Overwrite {
		err := renameOverwrite(req.Src, req.Dst)
		if err == nil {
			return nil
		}
		if !isCrossVolumeErr(err) {
			return opError("move", req, classifyRenameErr(req, err))
		}
		// Cross-volume: fall through to copy+delete.
	} else if _, err := os.Lstat(req.Dst); err == nil {
		// Best-effort check for directories; the file path below is
		// race-free via exclusive-create regardless.
		return opError("move", req, ErrDestinationExists)
	}

	copyReq := req
	copyReq.CreateParents = false
	copyReq.AllowDirs = true
	if err := Copy(copyReq); err != nil {
		return opError("move", req, err)
	}

	if srcInfo.IsDir() {
		err = os.RemoveAll(req.Src)
	} else {
		err = os.Remove(req.Src)
	}
	if err != nil {
		return opError("move", req, fmt.Errorf("remove source after copy: %w", err))
	}
	return nil
}

// copyDir recursively copies a directory tree. With Overwrite unset the
// destination must not already exist (best-effort; directories have no
// exclusive-create primitive).
func copyDir(req Request) error {
	if !req.Overwrite {
		if _, err := os.Lstat(req.Dst); err == nil {
			return ErrDestinationExists
		}
	}
	if err := MakeDirs(req.Dst); err != nil {
		return err
	}

	entries, err := os.ReadDir(req.Src)
	if err != nil {
		return fmt.Errorf("readdir %s: %w", req.Src, err)
	}
	for _, entry := range entries {
		child := Request{
			Src:                 filepath.Join(req.Src, entry.Name()),
			Dst:                 filepath.Join(req.Dst, entry.Name()),
			Overwrite:           req.Overwrite,
			AllowDirs:           true,
			PreserveDestModTime: req.PreserveDestModTime,
		}
		if err := Copy(child); err != nil {
			return err
		}
	}
	return nil
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

// classifyRenameErr distinguishes a vanished source from a missing
// destination parent; rename reports both as not-exist.
func classifyRenameErr(req Request, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		if _, statErr := os.Lstat(req.Src); statErr != nil {
			return condition(ErrSourceMissing, err)
		}
		return fmt.Errorf("destination parent missing: %w", err)
	}
	return classifyPlatformErr(err)
}
