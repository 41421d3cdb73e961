package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine indicates a vocabulary record that does not follow `key:values`.
	ErrMalformedLine = errors.New("malformed vocabulary line")

	// ErrDuplicatePhrase indicates an alias or synonym listed under more than one key.
	ErrDuplicatePhrase = errors.New("phrase maps to more than one key")

	// ErrUnknownBook indicates a scripture whose book is not in the catalog.
	ErrUnknownBook = errors.New("unknown book")

	// ErrChapterOutOfRange indicates a chapter below 1 or above the book's last chapter.
	ErrChapterOutOfRange = errors.New("chapter out of range")

	errEmptyKey = errors.New("empty key")
)

// LoadError is returned when a vocabulary source cannot be read or parsed.
// No catalog is produced when loading fails.
type LoadError struct {
	Source string // file path or source name
	Line   int    // 1-indexed; 0 when the whole source failed
	Err    error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MalformedChapterError is returned by validity checks when a chapter is not an integer.
type MalformedChapterError struct {
	Book    string
	Chapter string
}

func (e *MalformedChapterError) Error() string {
	return fmt.Sprintf("malformed chapter %q for %s", e.Chapter, e.Book)
}
