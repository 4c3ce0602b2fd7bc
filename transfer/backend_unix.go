//go:build !windows

package transfer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// copyFilePlatform copies a regular file. With Overwrite unset the
// destination is opened O_CREAT|O_EXCL in a single syscall, so a racing
// writer can never be clobbered and check-then-create races cannot occur.
// With Overwrite set, data is streamed to a uniquely-named temp file in
// the destination directory and renamed into place, so no reader ever
// observes a partial destination.
func copyFilePlatform(req Request, perm os.FileMode, size int64) error {
	if req.Overwrite {
		return copyViaTemp(req.Src, req.Dst, perm, size)
	}
	return copyExclusive(req.Src, req.Dst, perm, size)
}

func copyExclusive(src, dst string, perm os.FileMode, size int64) error {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return condition(ErrDestinationExists, err)
		}
		return classifyDestErr(err, dst)
	}

	if err := streamInto(src, out, size); err != nil {
		out.Close()
		_ = os.Remove(dst) // never leave a truncated destination
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}

func copyViaTemp(src, dst string, perm os.FileMode, size int64) error {
	dir := filepath.Dir(dst)
	base := filepath.Base(dst)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.fileops-tmp", base, uuid.New().String()[:8]))

	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return classifyDestErr(err, dst)
	}
	defer func() {
		_ = os.Remove(tmp) // no-op once the rename succeeds
	}()

	if err := streamInto(src, out, size); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmp, dst, err)
	}
	return nil
}

// streamInto writes the contents of src to out, trying the platform fast
// path first and falling back to fixed-size buffered read/write.
func streamInto(src string, out *os.File, size int64) error {
	in, err := os.Open(src)
	if err != nil {
		return classifyPlatformErr(err)
	}
	defer in.Close()

	if size > 0 {
		written, err := fastCopy(out, in, size)
		if err == nil {
			return nil
		}
		// Only fall back when nothing was written; a partial fast copy
		// aborts the operation and the caller discards the destination.
		if written > 0 || !isFastCopyFallbackErr(err) {
			return fmt.Errorf("copy %s: %w", src, err)
		}
	}

	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}

// renameOverwrite is the platform rename-with-overwrite primitive.
func renameOverwrite(src, dst string) error {
	return os.Rename(src, dst)
}

func isCrossVolumeErr(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

// classifyDestErr tags errors from opening the destination. A missing
// path here means a missing parent directory, not a missing source.
func classifyDestErr(err error, dst string) error {
	switch {
	case errors.Is(err, os.ErrPermission):
		return condition(ErrDenied, err)
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("destination parent missing: %w", err)
	default:
		return fmt.Errorf("open %s: %w", dst, err)
	}
}

func classifyPlatformErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrPermission):
		return condition(ErrDenied, err)
	case errors.Is(err, os.ErrNotExist):
		return condition(ErrSourceMissing, err)
	case errors.Is(err, unix.EXDEV):
		return condition(ErrCrossVolume, err)
	default:
		return err
	}
}
