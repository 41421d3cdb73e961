package catalog

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

//go:embed defaults/*.txt
var defaultsFS embed.FS

// Default vocabulary file names, used by `insight init` and tests.
const (
	BooksFile     = "books.txt"
	TopicsFile    = "topics.txt"
	BookNamesFile = "bookNames.txt"
)

// Sources names the three vocabulary files. An empty path means the source is not declared.
type Sources struct {
	Books     string `toml:"books"`
	Topics    string `toml:"topics"`
	BookNames string `toml:"book_names"`
}

// Options controls how Load treats unreadable sources.
type Options struct {
	// Strict makes a missing or unreadable source a LoadError.
	// When false the affected table is left empty and a warning is logged.
	Strict bool

	Logger *slog.Logger
}

type table int

const (
	tableBooks table = iota
	tableTopics
	tableBookNames
)

func (t table) String() string {
	switch t {
	case tableBooks:
		return "books"
	case tableTopics:
		return "topics"
	default:
		return "bookNames"
	}
}

// Load reads the three vocabulary files and builds a Catalog.
func Load(src Sources, opts Options) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cat := newCatalog()
	inputs := []struct {
		path string
		kind table
	}{
		{src.Books, tableBooks},
		{src.Topics, tableTopics},
		{src.BookNames, tableBookNames},
	}

	for _, in := range inputs {
		if in.path == "" {
			continue
		}

		f, err := os.Open(in.path)
		if err != nil {
			if opts.Strict {
				return nil, &LoadError{Source: in.path, Err: err}
			}
			logger.Warn("vocabulary source unavailable, using empty table",
				"table", in.kind.String(), "path", in.path, "error", err)
			continue
		}

		err = cat.read(in.path, f, in.kind)
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("catalog loaded",
		"books", len(cat.books), "aliases", len(cat.aliasOwner), "topics", len(cat.topics))
	return cat, nil
}

// Parse builds a Catalog from in-memory sources. A nil reader yields an empty table.
func Parse(books, topics, bookNames io.Reader) (*Catalog, error) {
	cat := newCatalog()
	if books != nil {
		if err := cat.read(tableBooks.String(), books, tableBooks); err != nil {
			return nil, err
		}
	}
	if topics != nil {
		if err := cat.read(tableTopics.String(), topics, tableTopics); err != nil {
			return nil, err
		}
	}
	if bookNames != nil {
		if err := cat.read(tableBookNames.String(), bookNames, tableBookNames); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// Default returns the catalog built from the bundled sample vocabulary.
func Default() (*Catalog, error) {
	books, topics, bookNames, err := openDefaults()
	if err != nil {
		return nil, err
	}
	defer books.Close()
	defer topics.Close()
	defer bookNames.Close()
	return Parse(books, topics, bookNames)
}

// DefaultFiles returns the bundled sample vocabulary keyed by file name.
func DefaultFiles() (map[string][]byte, error) {
	files := make(map[string][]byte, 3)
	for _, name := range []string{BooksFile, TopicsFile, BookNamesFile} {
		data, err := fs.ReadFile(defaultsFS, "defaults/"+name)
		if err != nil {
			return nil, fmt.Errorf("read bundled %s: %w", name, err)
		}
		files[name] = data
	}
	return files, nil
}

func openDefaults() (books, topics, bookNames fs.File, err error) {
	if books, err = defaultsFS.Open("defaults/" + BooksFile); err != nil {
		return nil, nil, nil, err
	}
	if topics, err = defaultsFS.Open("defaults/" + TopicsFile); err != nil {
		books.Close()
		return nil, nil, nil, err
	}
	if bookNames, err = defaultsFS.Open("defaults/" + BookNamesFile); err != nil {
		books.Close()
		topics.Close()
		return nil, nil, nil, err
	}
	return books, topics, bookNames, nil
}

func (c *Catalog) read(source string, r io.Reader, kind table) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if skipLine(line) {
			continue
		}

		key, values, err := parseLine(source, line)
		if err != nil {
			return &LoadError{Source: source, Line: lineNum, Err: fmt.Errorf("%w: %v", ErrMalformedLine, err)}
		}

		if err := c.apply(kind, key, values); err != nil {
			return &LoadError{Source: source, Line: lineNum, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return &LoadError{Source: source, Err: err}
	}
	return nil
}

func (c *Catalog) apply(kind table, key string, values []string) error {
	switch kind {
	case tableBooks:
		if len(values) != 1 {
			return fmt.Errorf("%w: book %q needs exactly one chapter count", ErrMalformedLine, key)
		}
		maxChapter, err := strconv.Atoi(values[0])
		if err != nil {
			return fmt.Errorf("%w: chapter count %q for %q", ErrMalformedLine, values[0], key)
		}
		return c.addBook(key, maxChapter)
	case tableTopics:
		return c.addTopic(key, values)
	case tableBookNames:
		return c.addAliases(key, values)
	}
	return errors.New("unknown vocabulary table")
}
