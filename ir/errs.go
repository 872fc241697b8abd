package ir

import (
	"errors"
	"fmt"
)

var (
	ErrPathNotFound = errors.New("ir: path not found")
	ErrBadPath      = errors.New("ir: bad path")
)

// PathError reports a path traversal that ran through a missing key
// or an out-of-range index.
type PathError struct {
	Op   string // "get" or "set"
	Path string // the full path requested
	Seg  string // the segment that failed
}

func (e *PathError) Error() string {
	return fmt.Sprintf("ir: %s %q: no %q", e.Op, e.Path, e.Seg)
}

func (e *PathError) Unwrap() error {
	return ErrPathNotFound
}
