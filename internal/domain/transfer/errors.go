package transfer

import "errors"

var (
	// ErrProcessNotFound is returned by Store.Find and
	// Store.ProcessIDForTransferID when no matching record exists.
	ErrProcessNotFound = errors.New("transfer: process not found")

	// ErrDuplicateProcess is returned by Store.Create when a process with
	// the same id already exists.
	ErrDuplicateProcess = errors.New("transfer: duplicate process id")

	// ErrNoStatusChecker names the case of a resource type with no
	// registered StatusChecker. evaluateStatus does not return it: it
	// reports such a process as not ready, with a nil error.
	ErrNoStatusChecker = errors.New("transfer: no status checker registered for resource type")
)
