package finder

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aidanlsb/insight/internal/model"
)

// StrayVerseMarker is the book produced by verse-only citations such as "v.3".
const StrayVerseMarker = "v."

// VerseRule selects how the start verse of a citation is terminated.
type VerseRule int

const (
	// VerseRuleObserved lets the start verse absorb the rest of the phrase, so the
	// end verse is never populated. This is the historical behavior of journals
	// already on disk and remains the default.
	VerseRuleObserved VerseRule = iota

	// VerseRuleSeparated ends the start verse at ',' or '-' and reads the end verse
	// from the remainder, e.g. "alma 32:21-23".
	VerseRuleSeparated
)

func (r VerseRule) String() string {
	switch r {
	case VerseRuleSeparated:
		return "separated"
	default:
		return "observed"
	}
}

// Set implements pflag.Value.
func (r *VerseRule) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "observed":
		*r = VerseRuleObserved
	case "separated":
		*r = VerseRuleSeparated
	default:
		return fmt.Errorf("invalid verse rule %q (use observed or separated)", s)
	}
	return nil
}

// Type implements pflag.Value.
func (r *VerseRule) Type() string { return "verse-rule" }

// UnmarshalText lets the rule be decoded from configuration files.
func (r *VerseRule) UnmarshalText(text []byte) error { return r.Set(string(text)) }

// MarshalText implements encoding.TextMarshaler.
func (r VerseRule) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

type tokenState int

const (
	stateBook tokenState = iota
	stateChapter
	stateStartVerse
	stateEndVerse
)

// Tokenize splits a citation phrase such as "2 nephi 22:3" into its parts.
//
// Transitions:
//   - Book: the first rune is always taken (numeric book prefixes like "2 Nephi");
//     after that the first digit moves to Chapter and starts it.
//   - Chapter: ':' moves to StartVerse and is dropped.
//   - StartVerse: under VerseRuleSeparated, ',' or '-' moves to EndVerse and is dropped.
//   - EndVerse: takes the remainder.
//
// Each part is trimmed. The words "chapter " and "section " are expected to be
// stripped by the caller.
func Tokenize(phrase string, rule VerseRule) model.Scripture {
	var book, chapter, startVerse, endVerse strings.Builder
	state := stateBook

	for i, r := range phrase {
		switch state {
		case stateBook:
			if i == 0 || !unicode.IsDigit(r) {
				book.WriteRune(r)
				continue
			}
			state = stateChapter
			chapter.WriteRune(r)
		case stateChapter:
			if r == ':' {
				state = stateStartVerse
				continue
			}
			chapter.WriteRune(r)
		case stateStartVerse:
			if rule == VerseRuleSeparated && (r == ',' || r == '-') {
				state = stateEndVerse
				continue
			}
			startVerse.WriteRune(r)
		case stateEndVerse:
			endVerse.WriteRune(r)
		}
	}

	return model.Scripture{
		Book:       strings.TrimSpace(book.String()),
		Chapter:    strings.TrimSpace(chapter.String()),
		StartVerse: strings.TrimSpace(startVerse.String()),
		EndVerse:   strings.TrimSpace(endVerse.String()),
	}
}
