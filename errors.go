package bookparse

import "errors"

// Sentinel errors returned by the bookparse package.
var (
	// ErrNotSupported indicates no extractor handles the requested file type,
	// or the registered extractor is a stub (e.g., PDF).
	ErrNotSupported = errors.New("bookparse: file type not supported")

	// ErrFileNotFound indicates the requested entry does not exist
	// in the archive.
	ErrFileNotFound = errors.New("bookparse: file not found in archive")

	// ErrNoPackage indicates the OPF package document could not be located
	// (missing or malformed META-INF/container.xml, or a dangling full-path).
	ErrNoPackage = errors.New("bookparse: package document not found")

	// ErrInvalidConfig indicates a Config failed validation.
	ErrInvalidConfig = errors.New("bookparse: invalid config")
)
