// Package model defines the journal data types shared across packages.
package model

import "errors"

// ErrIncompleteScripture is returned when a scripture is constructed without a book or chapter.
var ErrIncompleteScripture = errors.New("scripture requires a book and a chapter")

// Scripture is a single scripture citation.
// Chapter and verses are kept as text to preserve how they were written.
type Scripture struct {
	// Book is the canonical book name once aliases have been resolved.
	Book string `json:"book" yaml:"book"`

	// Chapter is compared numerically during validation.
	Chapter string `json:"chapter" yaml:"chapter"`

	StartVerse string `json:"start_verse,omitempty" yaml:"start_verse,omitempty"`
	EndVerse   string `json:"end_verse,omitempty" yaml:"end_verse,omitempty"`
}

// NewScripture builds a scripture, requiring a book and a chapter.
func NewScripture(book, chapter, startVerse, endVerse string) (Scripture, error) {
	if book == "" || chapter == "" {
		return Scripture{}, ErrIncompleteScripture
	}
	return Scripture{
		Book:       book,
		Chapter:    chapter,
		StartVerse: startVerse,
		EndVerse:   endVerse,
	}, nil
}

// BookAndChapter returns "Book Chapter".
func (s Scripture) BookAndChapter() string {
	return s.Book + " " + s.Chapter
}

// FullTitle returns "Book Chapter Start", with " - End" appended when an end verse exists.
// Two scriptures with the same full title are treated as the same citation.
func (s Scripture) FullTitle() string {
	title := s.Book + " " + s.Chapter + " " + s.StartVerse
	if s.EndVerse != "" {
		title += " - " + s.EndVerse
	}
	return title
}

// String implements fmt.Stringer.
func (s Scripture) String() string { return s.FullTitle() }
