package types

import "errors"

var (
	// ErrInputNotFound is returned when a source directory, dataset or rule list is missing.
	ErrInputNotFound = errors.New("input not found")
	// ErrEncoding is returned when a source program is not valid UTF-8.
	ErrEncoding = errors.New("invalid encoding")
	// ErrMalformedLine marks a dataset or rule-list line that does not split into its fields.
	// Stages skip such lines; the error is only ever logged.
	ErrMalformedLine = errors.New("malformed line")
	// ErrFileSystem wraps failures creating directories or writing outputs.
	ErrFileSystem = errors.New("file system error")
	// ErrLineTooLong is returned when a sample would not fit on one dataset line.
	ErrLineTooLong = errors.New("line too long")

	ErrInvalidMode   = errors.New("invalid mining mode")
	ErrInvalidFormat = errors.New("invalid table format")
)
