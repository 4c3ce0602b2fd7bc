//go:build !linux && !windows

package transfer

import (
	"errors"
	"os"
)

var errFastCopyUnsupported = errors.New("no fast copy primitive on this platform")

func fastCopy(out, in *os.File, size int64) (int64, error) {
	return 0, errFastCopyUnsupported
}

func isFastCopyFallbackErr(err error) bool {
	return errors.Is(err, errFastCopyUnsupported)
}
