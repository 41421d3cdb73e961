// Package journal validates extracted references and builds the reverse index
// from books and topics to the dates of the entries that mention them.
package journal

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/model"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindUnknownBook       Kind = "unknown_book"
	KindChapterOutOfRange Kind = "chapter_out_of_range"
	KindMalformedChapter  Kind = "malformed_chapter"
	KindUnknownTopic      Kind = "unknown_topic"
)

// ErrUnknownTopic indicates a topic that is not a canonical catalog topic.
var ErrUnknownTopic = errors.New("unknown topic")

// ValidationError reports the first invalid reference found during a pass.
type ValidationError struct {
	Date      string
	Reference string
	Kind      Kind
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entry %s: invalid reference %q: %v", e.Date, e.Reference, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Index maps canonical books and topics to the dates of the entries that cite them.
// A date is appended once per reference, so an entry citing a book twice lists
// its date twice.
type Index struct {
	ByBook  map[string][]string `json:"by_book" yaml:"by_book"`
	ByTopic map[string][]string `json:"by_topic" yaml:"by_topic"`
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		ByBook:  make(map[string][]string),
		ByTopic: make(map[string][]string),
	}
}

// Books returns the indexed book names sorted alphabetically.
func (ix *Index) Books() []string { return sortedKeys(ix.ByBook) }

// Topics returns the indexed topic names sorted alphabetically.
func (ix *Index) Topics() []string { return sortedKeys(ix.ByTopic) }

// Len returns the total number of indexed references.
func (ix *Index) Len() int {
	n := 0
	for _, dates := range ix.ByBook {
		n += len(dates)
	}
	for _, dates := range ix.ByTopic {
		n += len(dates)
	}
	return n
}

// ValidateAndIndex checks every reference of every entry against the catalog and
// builds a fresh index. The pass stops at the first invalid reference and no
// index is returned.
func ValidateAndIndex(cat *catalog.Catalog, entries []*model.Entry) (*Index, error) {
	ix := NewIndex()

	for _, entry := range entries {
		for _, ref := range entry.Scriptures {
			if err := cat.CheckScripture(ref); err != nil {
				return nil, &ValidationError{
					Date:      entry.Date,
					Reference: ref.FullTitle(),
					Kind:      scriptureKind(err),
					Err:       err,
				}
			}
			ix.ByBook[ref.Book] = append(ix.ByBook[ref.Book], entry.Date)
		}

		for _, topic := range entry.Topics {
			if !cat.IsValidTopic(topic) {
				return nil, &ValidationError{
					Date:      entry.Date,
					Reference: topic,
					Kind:      KindUnknownTopic,
					Err:       fmt.Errorf("%w: %q", ErrUnknownTopic, topic),
				}
			}
			ix.ByTopic[topic] = append(ix.ByTopic[topic], entry.Date)
		}
	}

	return ix, nil
}

func scriptureKind(err error) Kind {
	var malformed *catalog.MalformedChapterError
	switch {
	case errors.As(err, &malformed):
		return KindMalformedChapter
	case errors.Is(err, catalog.ErrChapterOutOfRange):
		return KindChapterOutOfRange
	default:
		return KindUnknownBook
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
