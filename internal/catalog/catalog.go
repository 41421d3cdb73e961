// Package catalog loads and queries the reference vocabulary: valid books with
// their chapter counts, topic synonyms, and book aliases.
//
// A Catalog is immutable once built and may be shared freely between readers.
// Book aliases are matched case-insensitively; topic synonyms and topic names
// are case-sensitive.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aidanlsb/insight/internal/model"
)

// Group is a canonical name together with its alternate phrases, in file order.
type Group struct {
	Name    string
	Phrases []string
}

// Stats summarizes the size of a catalog.
type Stats struct {
	Books    int `json:"books" yaml:"books"`
	Aliases  int `json:"aliases" yaml:"aliases"`
	Topics   int `json:"topics" yaml:"topics"`
	Synonyms int `json:"synonyms" yaml:"synonyms"`
}

// Catalog holds the vocabulary used to find and validate references.
type Catalog struct {
	books     map[string]int
	bookOrder []string

	aliases    []Group
	aliasOwner map[string]string // lower-cased alias -> canonical book

	topics       []Group
	topicIndex   map[string]int
	synonymOwner map[string]string // synonym -> canonical topic
}

func newCatalog() *Catalog {
	return &Catalog{
		books:        make(map[string]int),
		aliasOwner:   make(map[string]string),
		topicIndex:   make(map[string]int),
		synonymOwner: make(map[string]string),
	}
}

// CheckScripture validates a scripture against the catalog.
// It returns nil when the book exists and 1 <= chapter <= the book's last chapter.
// The book must already be canonical; matching is exact.
func (c *Catalog) CheckScripture(ref model.Scripture) error {
	maxChapter, ok := c.books[ref.Book]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBook, ref.Book)
	}

	chapter, err := strconv.Atoi(strings.TrimSpace(ref.Chapter))
	if err != nil {
		return &MalformedChapterError{Book: ref.Book, Chapter: ref.Chapter}
	}

	if chapter < 1 || chapter > maxChapter {
		return fmt.Errorf("%w: %s has %d chapters, got %d", ErrChapterOutOfRange, ref.Book, maxChapter, chapter)
	}
	return nil
}

// IsValidScripture reports whether CheckScripture accepts the scripture.
func (c *Catalog) IsValidScripture(ref model.Scripture) bool {
	return c.CheckScripture(ref) == nil
}

// IsValidTopic reports whether name is a canonical topic. Synonyms are not accepted.
func (c *Catalog) IsValidTopic(name string) bool {
	_, ok := c.topicIndex[name]
	return ok
}

// MaxChapter returns the last chapter of a book.
func (c *Catalog) MaxChapter(book string) (int, bool) {
	n, ok := c.books[book]
	return n, ok
}

// Books returns the canonical book names in file order.
func (c *Catalog) Books() []string {
	return append([]string(nil), c.bookOrder...)
}

// BookAliases returns the alias groups in file order.
func (c *Catalog) BookAliases() []Group {
	return cloneGroups(c.aliases)
}

// Topics returns the topic groups in file order.
func (c *Catalog) Topics() []Group {
	return cloneGroups(c.topics)
}

// TopicNames returns the canonical topic names in file order.
func (c *Catalog) TopicNames() []string {
	names := make([]string, len(c.topics))
	for i, g := range c.topics {
		names[i] = g.Name
	}
	return names
}

// Synonyms returns the synonyms configured for a canonical topic.
func (c *Catalog) Synonyms(topic string) []string {
	i, ok := c.topicIndex[topic]
	if !ok {
		return nil
	}
	return append([]string(nil), c.topics[i].Phrases...)
}

// ResolveBook maps an alias to its canonical book, ignoring case.
// Unknown aliases are returned unchanged with ok=false.
func (c *Catalog) ResolveBook(alias string) (string, bool) {
	if book, ok := c.aliasOwner[strings.ToLower(alias)]; ok {
		return book, true
	}
	return alias, false
}

// ResolveTopic maps an exact synonym to its canonical topic.
func (c *Catalog) ResolveTopic(phrase string) (string, bool) {
	topic, ok := c.synonymOwner[phrase]
	return topic, ok
}

// Stats returns catalog sizes.
func (c *Catalog) Stats() Stats {
	s := Stats{Books: len(c.books), Topics: len(c.topics)}
	for _, g := range c.aliases {
		s.Aliases += len(g.Phrases)
	}
	for _, g := range c.topics {
		s.Synonyms += len(g.Phrases)
	}
	return s
}

func (c *Catalog) addBook(name string, maxChapter int) error {
	if _, exists := c.books[name]; exists {
		return fmt.Errorf("%w: book %q listed twice", ErrMalformedLine, name)
	}
	c.books[name] = maxChapter
	c.bookOrder = append(c.bookOrder, name)
	return nil
}

func (c *Catalog) addAliases(book string, aliases []string) error {
	group := Group{Name: book}
	for _, alias := range aliases {
		key := strings.ToLower(alias)
		if owner, exists := c.aliasOwner[key]; exists {
			if owner == book {
				continue
			}
			return fmt.Errorf("%w: alias %q belongs to %q and %q", ErrDuplicatePhrase, alias, owner, book)
		}
		c.aliasOwner[key] = book
		group.Phrases = append(group.Phrases, key)
	}
	c.aliases = append(c.aliases, group)
	return nil
}

func (c *Catalog) addTopic(topic string, synonyms []string) error {
	if _, exists := c.topicIndex[topic]; exists {
		return fmt.Errorf("%w: topic %q listed twice", ErrMalformedLine, topic)
	}
	group := Group{Name: topic}
	for _, syn := range synonyms {
		if owner, exists := c.synonymOwner[syn]; exists {
			if owner == topic {
				continue
			}
			return fmt.Errorf("%w: synonym %q belongs to %q and %q", ErrDuplicatePhrase, syn, owner, topic)
		}
		c.synonymOwner[syn] = topic
		group.Phrases = append(group.Phrases, syn)
	}
	c.topicIndex[topic] = len(c.topics)
	c.topics = append(c.topics, group)
	return nil
}

func cloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Name: g.Name, Phrases: append([]string(nil), g.Phrases...)}
	}
	return out
}
