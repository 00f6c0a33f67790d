package services

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// ReasonCode is a short machine-readable purge failure reason.
type ReasonCode string

const (
	ReasonUnknown      ReasonCode = "unknown"
	ReasonStat         ReasonCode = "stat"
	ReasonPermission   ReasonCode = "permission"
	ReasonUnclassified ReasonCode = "unclassified"
	ReasonDirRemoval   ReasonCode = "dir_removal"
	ReasonLedger       ReasonCode = "ledger"
	ReasonInvalidInput ReasonCode = "invalid_input"
)

var ErrNotDirectory = errors.New("not a directory")

// PurgeError attaches a reason code and the offending path to a failure.
type PurgeError struct {
	Path   string
	Reason ReasonCode
	Err    error
}

func (e *PurgeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Reason, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Reason, e.Path, e.Err)
}

func (e *PurgeError) Unwrap() error {
	return e.Err
}

func wrap(err error, path string, reason ReasonCode) error {
	if err == nil {
		return nil
	}
	var pe *PurgeError
	if errors.As(err, &pe) {
		return err
	}
	return &PurgeError{Path: path, Reason: reason, Err: err}
}

// Reason extracts the reason code from err, if present.
func Reason(err error) ReasonCode {
	if err == nil {
		return ReasonUnknown
	}
	var pe *PurgeError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ReasonUnknown
}

func HasReason(err error, reason ReasonCode) bool {
	return Reason(err) == reason
}

// OutcomeKind tags the result of a single removal attempt.
type OutcomeKind int

const (
	OutcomeDeleted OutcomeKind = iota
	OutcomePermissionDenied
	OutcomeUnclassified
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDeleted:
		return "deleted"
	case OutcomePermissionDenied:
		return string(ReasonPermission)
	default:
		return string(ReasonUnclassified)
	}
}

// Outcome is the classified result of a removal attempt. Code is set for
// OutcomePermissionDenied, Cause for every failure.
type Outcome struct {
	Kind  OutcomeKind
	Code  int
	Cause error
}

func classify(err error) Outcome {
	if err == nil {
		return Outcome{Kind: OutcomeDeleted}
	}
	if errors.Is(err, fs.ErrPermission) {
		code := errnoOf(err)
		if code == 0 {
			code = int(syscall.EACCES)
		}
		return Outcome{Kind: OutcomePermissionDenied, Code: code, Cause: err}
	}
	return Outcome{Kind: OutcomeUnclassified, Cause: err}
}

// errnoOf returns the OS error number carried by err, or 0.
func errnoOf(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 0
}
