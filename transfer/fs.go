package transfer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// MakeDirs creates dir and any missing parents. It succeeds when the
// directory already exists and fails only if a non-directory occupies
// the path.
func MakeDirs(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		if fi, statErr := os.Stat(dir); statErr == nil && fi.IsDir() {
			return nil
		}
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// EnsureEmptyDir leaves dir existing and empty: it is created if absent
// and cleared if not. Idempotent. Fails if a regular file occupies the
// path.
func EnsureEmptyDir(dir string) error {
	fi, err := os.Lstat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return MakeDirs(dir)
		}
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("file exists at %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("readdir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("clear %s: %w", dir, err)
		}
	}
	return nil
}

// IsEmptyDir reports whether dir exists and has no entries.
func IsEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// Delete removes the file at path.
func Delete(path string) error {
	return os.Remove(path)
}

// DeleteSure removes the file at path and confirms it is gone. Unlike
// Delete, it succeeds when the file is already absent.
func DeleteSure(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("%s still exists after delete", path)
	}
	return nil
}

// FilesEqual reports whether two files have identical content,
// comparing in fixed-size chunks.
func FilesEqual(a, b string) (bool, error) {
	ia, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if ia.Size() != ib.Size() {
		return false, nil
	}

	fa, err := os.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()
	fb, err := os.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	bufA := make([]byte, copyBufferSize)
	bufB := make([]byte, copyBufferSize)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		if errA == io.EOF || errA == io.ErrUnexpectedEOF {
			return true, nil
		}
		if errA != nil {
			return false, errA
		}
		if errB != nil {
			return false, errB
		}
	}
}

// GetModTime returns the modification time of path.
func GetModTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

// SetModTime sets the modification time of path, leaving the access
// time unchanged.
func SetModTime(path string, t time.Time) error {
	return os.Chtimes(path, time.Time{}, t)
}
