//go:build windows

package transfer

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32   = windows.NewLazySystemDLL("kernel32.dll")
	procCopyFileW = modkernel32.NewProc("CopyFileW")
)

// winErrText names the error codes the native copy/move primitives
// produce in practice.
var winErrText = map[syscall.Errno]string{
	windows.ERROR_PATH_NOT_FOUND:  "path not found",
	windows.ERROR_ACCESS_DENIED:   "access denied",
	windows.ERROR_NOT_SAME_DEVICE: "different drives",
	windows.ERROR_FILE_EXISTS:     "destination already exists",
}

// copyFilePlatform copies via the native CopyFileW primitive, which is
// atomic with respect to the destination name and honors the
// fail-if-exists contract in a single call.
func copyFilePlatform(req Request, perm os.FileMode, size int64) error {
	srcp, err := windows.UTF16PtrFromString(req.Src)
	if err != nil {
		return err
	}
	dstp, err := windows.UTF16PtrFromString(req.Dst)
	if err != nil {
		return err
	}

	failIfExists := uintptr(1)
	if req.Overwrite {
		failIfExists = 0
	}

	r1, _, callErr := procCopyFileW.Call(
		uintptr(unsafe.Pointer(srcp)),
		uintptr(unsafe.Pointer(dstp)),
		failIfExists,
	)
	if r1 == 0 {
		return classifyPlatformErr(fmt.Errorf("CopyFileW: %w", callErr))
	}
	return nil
}

// renameOverwrite moves via MoveFileExW. MOVEFILE_COPY_ALLOWED lets the
// primitive handle cross-volume file moves itself; directory moves across
// volumes still fail with ERROR_NOT_SAME_DEVICE and are recovered by the
// caller's copy+delete fallback.
func renameOverwrite(src, dst string) error {
	srcp, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return err
	}
	dstp, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return err
	}

	flags := uint32(windows.MOVEFILE_REPLACE_EXISTING | windows.MOVEFILE_COPY_ALLOWED)
	if err := windows.MoveFileEx(srcp, dstp, flags); err != nil {
		return fmt.Errorf("MoveFileExW: %w", err)
	}
	return nil
}

func isCrossVolumeErr(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_SAME_DEVICE)
}

func classifyPlatformErr(err error) error {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		switch {
		case errors.Is(err, os.ErrPermission):
			return condition(ErrDenied, err)
		case errors.Is(err, os.ErrNotExist):
			return condition(ErrSourceMissing, err)
		default:
			return err
		}
	}

	tagged := err
	if text, ok := winErrText[errno]; ok {
		tagged = fmt.Errorf("%s (code %d): %w", text, uint32(errno), err)
	}

	switch errno {
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND:
		return condition(ErrSourceMissing, tagged)
	case windows.ERROR_ACCESS_DENIED, windows.ERROR_SHARING_VIOLATION:
		return condition(ErrDenied, tagged)
	case windows.ERROR_NOT_SAME_DEVICE:
		return condition(ErrCrossVolume, tagged)
	case windows.ERROR_FILE_EXISTS, windows.ERROR_ALREADY_EXISTS:
		return condition(ErrDestinationExists, tagged)
	default:
		return tagged
	}
}
