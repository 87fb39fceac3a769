package domain

import "errors"

var (
	// ErrDirectoryNotFound is returned when the directory to search does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrUnreadableFile is returned when a file cannot be read during corpus loading.
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrInvalidQuery is returned when a query cannot be compiled into a matcher.
	ErrInvalidQuery = errors.New("invalid query")
)
