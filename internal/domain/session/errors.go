package session

import "errors"

var (
	// ErrRunInProgress indicates a code run is already outstanding.
	ErrRunInProgress = errors.New("a run is already in progress")
	// ErrFileNotFound indicates the id is not in the loaded file list.
	ErrFileNotFound = errors.New("file not found")
	// ErrProjectNotFound indicates the backend list did not contain the requested project.
	ErrProjectNotFound = errors.New("project not found")
	// ErrNotAFile indicates a folder or project where a file was required.
	ErrNotAFile = errors.New("not a file")
	// ErrDetachedFile indicates an example file that has no backend record.
	ErrDetachedFile = errors.New("example files are not stored on the backend")
	// ErrClosed indicates the session was closed.
	ErrClosed = errors.New("session closed")
)
