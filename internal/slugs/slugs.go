// Package slugs provides the slug helpers used for entry ids and HTML anchors.
//
// There are two strategies:
//   - Entry ids: stable keys derived from entry dates, built on gosimple/slug.
//     They key entries in the lookup cache and name exported anchors.
//   - Reference anchors: fragment ids for book and topic headings. These keep
//     non-ASCII letters so that every canonical name gets a readable anchor.
package slugs

import (
	"strconv"
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

// EntryID converts an entry date to a stable, URL-safe id.
// Dates are free-form, so an empty slug falls back to a lower-cased, dashed form.
func EntryID(date string) string {
	id := goslug.Make(date)
	if id == "" {
		id = strings.ToLower(strings.Join(strings.Fields(date), "-"))
	}
	if id == "" {
		return "entry"
	}
	return id
}

// Anchor converts a book or topic name to a fragment id.
func Anchor(text string) string {
	var result strings.Builder
	prevDash := false

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '-' || r == '_' || r == ':' || r == '&':
			if !prevDash && result.Len() > 0 {
				result.WriteRune('-')
				prevDash = true
			}
		}
	}

	return strings.TrimSuffix(result.String(), "-")
}

// Set hands out unique ids within one document.
type Set struct {
	seen map[string]int
}

// NewSet returns an empty id set.
func NewSet() *Set {
	return &Set{seen: make(map[string]int)}
}

// Unique returns id, or id with a numeric suffix when it was already handed out.
func (s *Set) Unique(id string) string {
	n := s.seen[id]
	s.seen[id] = n + 1
	if n == 0 {
		return id
	}
	candidate := id + "-" + strconv.Itoa(n+1)
	for s.seen[candidate] > 0 {
		n++
		candidate = id + "-" + strconv.Itoa(n+1)
	}
	s.seen[candidate] = 1
	return candidate
}
