// Package finder detects scripture citations and topics in journal text.
//
// A Finder is compiled once per catalog. Extraction never fails: candidates
// that do not validate against the catalog are dropped.
package finder

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/model"
)

// Options configures compilation.
type Options struct {
	VerseRule VerseRule
	Logger    *slog.Logger
}

// Finder holds the compiled scripture and topic patterns for one catalog.
type Finder struct {
	cat    *catalog.Catalog
	rule   VerseRule
	logger *slog.Logger

	scripturePatterns []string
	scriptureRE       *regexp.Regexp

	topicPatterns []string
	topicRE       *regexp.Regexp // nil when the catalog has no synonyms
}

// Compile builds the pattern sets for cat.
func Compile(cat *catalog.Catalog, opts Options) (*Finder, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	f := &Finder{
		cat:               cat,
		rule:              opts.VerseRule,
		logger:            logger,
		scripturePatterns: scripturePatterns(cat, opts.VerseRule),
		topicPatterns:     topicPatterns(cat),
	}

	re, err := regexp.Compile(strings.Join(f.scripturePatterns, "|"))
	if err != nil {
		return nil, fmt.Errorf("compile scripture patterns: %w", err)
	}
	f.scriptureRE = re

	if len(f.topicPatterns) > 0 {
		re, err := regexp.Compile(strings.Join(f.topicPatterns, "|"))
		if err != nil {
			return nil, fmt.Errorf("compile topic patterns: %w", err)
		}
		f.topicRE = re
	}

	return f, nil
}

// Catalog returns the catalog the finder was compiled from.
func (f *Finder) Catalog() *catalog.Catalog { return f.cat }

// VerseRule returns the verse rule in effect.
func (f *Finder) VerseRule() VerseRule { return f.rule }

// ScripturePatterns returns the scripture alternatives in match priority order.
func (f *Finder) ScripturePatterns() []string {
	return append([]string(nil), f.scripturePatterns...)
}

// TopicPatterns returns the topic alternatives in match priority order.
func (f *Finder) TopicPatterns() []string {
	return append([]string(nil), f.topicPatterns...)
}

// Extract runs scripture and topic extraction on the entry.
func (f *Finder) Extract(entry *model.Entry) {
	f.ExtractScriptures(entry)
	f.ExtractTopics(entry)
}

// ExtractScriptures replaces the entry's scriptures with the valid citations found in its text.
// Matching is case-insensitive and leftmost-first over ScripturePatterns.
func (f *Finder) ExtractScriptures(entry *model.Entry) {
	entry.RemoveAllScriptures()

	text := strings.ToLower(entry.Text)
	for _, span := range f.scriptureRE.FindAllString(text, -1) {
		phrase := strings.ReplaceAll(span, "chapter ", "")
		phrase = strings.ReplaceAll(phrase, "section ", "")

		ref := Tokenize(phrase, f.rule)

		// A verse-only citation continues the previous citation's book.
		if ref.Book == StrayVerseMarker {
			if last, ok := entry.LastScripture(); ok {
				ref.Book = last.Book
			}
		}

		if book, ok := f.cat.ResolveBook(ref.Book); ok {
			ref.Book = book
		}

		if err := f.cat.CheckScripture(ref); err != nil {
			f.logger.Debug("dropped scripture candidate", "match", span, "error", err)
			continue
		}
		if entry.HasScripture(ref) {
			continue
		}
		entry.AddScripture(ref)
	}
}

// ExtractTopics replaces the entry's topics with the canonical topics whose synonyms
// appear in its text. Matching is case-sensitive substring matching.
func (f *Finder) ExtractTopics(entry *model.Entry) {
	entry.RemoveAllTopics()
	if f.topicRE == nil {
		return
	}

	for _, match := range f.topicRE.FindAllString(entry.Text, -1) {
		topic, ok := f.cat.ResolveTopic(match)
		if !ok {
			continue
		}
		entry.AddTopic(topic)
	}
}

// scripturePatterns lists, for every alias of every book in catalog order, the
// phrasings from most to least specific, followed by the stray-verse forms.
func scripturePatterns(cat *catalog.Catalog, rule VerseRule) []string {
	const (
		num     = `\d+`
		verse   = `\d+:\d+`
		ranged  = `\d+:\d+[-,]\d+`
		chapter = " chapter "
		section = " section "
	)

	var patterns []string
	for _, group := range cat.BookAliases() {
		for _, alias := range group.Phrases {
			q := regexp.QuoteMeta(strings.ToLower(alias))
			if rule == VerseRuleSeparated {
				patterns = append(patterns, q+chapter+ranged)
			}
			patterns = append(patterns, q+chapter+verse)
			if rule == VerseRuleSeparated {
				patterns = append(patterns, q+section+ranged)
			}
			patterns = append(patterns,
				q+section+verse,
				q+chapter+num,
				q+section+num,
			)
			if rule == VerseRuleSeparated {
				patterns = append(patterns, q+" "+ranged)
			}
			patterns = append(patterns,
				q+" "+verse,
				q+" "+num,
			)
		}
	}

	return append(patterns, `v\.\d+`, `v\. \d+`)
}

// topicPatterns lists every synonym in catalog order, with longer synonyms first so
// that overlapping synonyms starting at the same position resolve to the longest.
func topicPatterns(cat *catalog.Catalog) []string {
	var synonyms []string
	for _, group := range cat.Topics() {
		synonyms = append(synonyms, group.Phrases...)
	}

	sort.SliceStable(synonyms, func(i, j int) bool {
		return utf8.RuneCountInString(synonyms[i]) > utf8.RuneCountInString(synonyms[j])
	})

	patterns := make([]string, len(synonyms))
	for i, s := range synonyms {
		patterns[i] = regexp.QuoteMeta(s)
	}
	return patterns
}
