//go:build linux

package transfer

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// fastCopy copies size bytes from in to out with copy_file_range(2),
// avoiding a round trip through userspace. Both file offsets advance.
func fastCopy(out, in *os.File, size int64) (int64, error) {
	var written int64
	for written < size {
		n, err := unix.CopyFileRange(int(in.Fd()), nil, int(out.Fd()), nil, int(size-written), 0)
		if err != nil {
			return written, err
		}
		if n == 0 {
			break
		}
		written += int64(n)
	}
	return written, nil
}

// isFastCopyFallbackErr reports whether err means copy_file_range is
// unavailable for this pair of files rather than a real failure.
func isFastCopyFallbackErr(err error) bool {
	return errors.Is(err, unix.ENOSYS) ||
		errors.Is(err, unix.EXDEV) ||
		errors.Is(err, unix.EINVAL) ||
		errors.Is(err, unix.ENOTSUP)
}
