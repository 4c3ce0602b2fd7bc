package transfer

import (
	"errors"
	"fmt"
)

// Error conditions reachable through errors.Is on any error returned by
// this package.
var (
	// ErrSourceMissing reports that the copy/move source does not exist,
	// or is a directory when directories are disallowed.
	ErrSourceMissing = errors.New("source does not exist")

	// ErrDestinationExists reports that the destination already exists
	// and the request did not permit overwriting.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrCrossVolume reports that a move could not complete as an atomic
	// rename because source and destination are on different volumes.
	// Move recovers from this internally via copy+delete; it surfaces
	// only when the fallback itself fails.
	ErrCrossVolume = errors.New("source and destination are on different volumes")

	// ErrDenied reports a permission or lock conflict from the platform.
	ErrDenied = errors.New("permission denied")
)

// TransferError carries the operation and both paths alongside the
// underlying cause.
type TransferError struct {
	Op  string
	Src string
	Dst string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Src, e.Dst, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

func opError(op string, req Request, err error) error {
	var te *TransferError
	if errors.As(err, &te) {
		return err
	}
	return &TransferError{Op: op, Src: req.Src, Dst: req.Dst, Err: err}
}

// condition tags err with one of the package sentinels so both are
// visible to errors.Is.
func condition(cond, err error) error {
	if err == nil {
		return cond
	}
	return fmt.Errorf("%w: %w", cond, err)
}
