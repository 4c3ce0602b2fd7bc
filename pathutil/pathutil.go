// Package pathutil provides pure string helpers over filesystem paths.
// Nothing here touches the filesystem.
package pathutil

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Parent returns the directory containing path.
func Parent(path string) string {
	return filepath.Dir(path)
}

// Name returns the last element of path.
func Name(path string) string {
	return filepath.Base(path)
}

// Ext returns the extension of path, lowercased. When removeDot is true
// the result is "jpg" rather than ".jpg".
func Ext(path string, removeDot bool) string {
	ext := strings.ToLower(filepath.Ext(path))
	if removeDot {
		return strings.TrimPrefix(ext, ".")
	}
	return ext
}

// WithExt replaces the extension of path with extWithDot (e.g. ".png").
// It returns an error if path has no extension to replace.
func WithExt(path, extWithDot string) (string, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("path %q has no extension", path)
	}
	return path[:len(path)-len(ext)] + extWithDot, nil
}

// ExeSuffix returns the executable filename suffix for the current
// platform: ".exe" on Windows, empty elsewhere.
func ExeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
