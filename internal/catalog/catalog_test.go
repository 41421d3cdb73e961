package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/insight/internal/model"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}
	return cat
}

func TestIsValidScripture(t *testing.T) {
	cat := mustDefault(t)

	tests := []struct {
		name    string
		ref     model.Scripture
		want    bool
		wantErr error
	}{
		{name: "last chapter", ref: model.Scripture{Book: "Genesis", Chapter: "50"}, want: true},
		{name: "first chapter", ref: model.Scripture{Book: "Genesis", Chapter: "1"}, want: true},
		{name: "past last chapter", ref: model.Scripture{Book: "Genesis", Chapter: "51"}, wantErr: ErrChapterOutOfRange},
		{name: "chapter zero", ref: model.Scripture{Book: "Genesis", Chapter: "0"}, wantErr: ErrChapterOutOfRange},
		{name: "absent book", ref: model.Scripture{Book: "Enos", Chapter: "2"}, wantErr: ErrUnknownBook},
		{name: "jacob out of range", ref: model.Scripture{Book: "Jacob", Chapter: "20"}, wantErr: ErrChapterOutOfRange},
		{name: "book match is exact", ref: model.Scripture{Book: "genesis", Chapter: "1"}, wantErr: ErrUnknownBook},
		{name: "numeric prefix book", ref: model.Scripture{Book: "2 Nephi", Chapter: "22", StartVerse: "3"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.IsValidScripture(tt.ref); got != tt.want {
				t.Errorf("IsValidScripture(%+v) = %v, want %v", tt.ref, got, tt.want)
			}
			err := cat.CheckScripture(tt.ref)
			if tt.wantErr == nil && err != nil {
				t.Errorf("CheckScripture() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckScripture() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckScriptureMalformedChapter(t *testing.T) {
	cat := mustDefault(t)

	err := cat.CheckScripture(model.Scripture{Book: "Genesis", Chapter: "one"})
	var malformed *MalformedChapterError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedChapterError, got %v", err)
	}
	if malformed.Chapter != "one" {
		t.Errorf("Chapter = %q, want %q", malformed.Chapter, "one")
	}

	// Unknown books are rejected before the chapter is parsed.
	if err := cat.CheckScripture(model.Scripture{Book: "Enos", Chapter: "x"}); !errors.Is(err, ErrUnknownBook) {
		t.Errorf("expected ErrUnknownBook, got %v", err)
	}
}

func TestIsValidTopic(t *testing.T) {
	cat := mustDefault(t)

	if !cat.IsValidTopic("Faith") {
		t.Error("expected Faith to be a valid topic")
	}
	if !cat.IsValidTopic("Repentance") {
		t.Error("expected Repentance to be a valid topic")
	}
	if cat.IsValidTopic("love") {
		t.Error("expected love to be invalid")
	}
	if cat.IsValidTopic("faith") {
		t.Error("topic names are case-sensitive; synonyms are not canonical names")
	}
}

func TestResolve(t *testing.T) {
	cat := mustDefault(t)

	if book, ok := cat.ResolveBook("GEN"); !ok || book != "Genesis" {
		t.Errorf("ResolveBook(GEN) = %q, %v", book, ok)
	}
	if book, ok := cat.ResolveBook("nowhere"); ok || book != "nowhere" {
		t.Errorf("ResolveBook(nowhere) = %q, %v", book, ok)
	}
	if topic, ok := cat.ResolveTopic("stiffnecked"); !ok || topic != "Pride" {
		t.Errorf("ResolveTopic(stiffnecked) = %q, %v", topic, ok)
	}
	if _, ok := cat.ResolveTopic("Stiffnecked"); ok {
		t.Error("topic synonyms are case-sensitive")
	}
}

func TestParse(t *testing.T) {
	t.Run("keeps file order and trims values", func(t *testing.T) {
		cat, err := Parse(
			strings.NewReader("Genesis:50\n\n# comment\nExodus:40\r\n"),
			strings.NewReader("Faith: faith , believe,,\nHope:hope\n"),
			strings.NewReader("Genesis:Genesis,gen\n"),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		books := cat.Books()
		if len(books) != 2 || books[0] != "Genesis" || books[1] != "Exodus" {
			t.Errorf("Books() = %v", books)
		}
		if syns := cat.Synonyms("Faith"); len(syns) != 2 || syns[0] != "faith" || syns[1] != "believe" {
			t.Errorf("Synonyms(Faith) = %q", syns)
		}
		aliases := cat.BookAliases()
		if len(aliases) != 1 || aliases[0].Phrases[0] != "genesis" {
			t.Errorf("aliases should be lower-cased, got %+v", aliases)
		}
		if got := cat.Stats(); got.Books != 2 || got.Topics != 2 || got.Synonyms != 3 || got.Aliases != 2 {
			t.Errorf("Stats() = %+v", got)
		}
	})

	t.Run("nil readers give empty tables", func(t *testing.T) {
		cat, err := Parse(nil, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cat.IsValidScripture(model.Scripture{Book: "Genesis", Chapter: "1"}) {
			t.Error("empty catalog should reject every scripture")
		}
	})

	errorCases := []struct {
		name      string
		books     string
		topics    string
		bookNames string
		wantErr   error
		wantLine  int
	}{
		{name: "missing colon", books: "Genesis:50\nExodus 40\n", wantErr: ErrMalformedLine, wantLine: 2},
		{name: "non-numeric chapter count", books: "Genesis:fifty\n", wantErr: ErrMalformedLine, wantLine: 1},
		{name: "two chapter counts", books: "Genesis:50,51\n", wantErr: ErrMalformedLine, wantLine: 1},
		{name: "empty key", topics: ":faith\n", wantErr: ErrMalformedLine, wantLine: 1},
		{name: "synonym under two topics", topics: "Faith:trust\nHope:trust\n", wantErr: ErrDuplicatePhrase, wantLine: 2},
		{name: "alias under two books", bookNames: "Genesis:gen\nGenealogy:GEN\n", wantErr: ErrDuplicatePhrase, wantLine: 2},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.books), strings.NewReader(tt.topics), strings.NewReader(tt.bookNames))
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected LoadError, got %v", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if loadErr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", loadErr.Line, tt.wantLine)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	writeDefaults := func(t *testing.T) Sources {
		t.Helper()
		dir := t.TempDir()
		files, err := DefaultFiles()
		if err != nil {
			t.Fatalf("DefaultFiles() failed: %v", err)
		}
		for name, data := range files {
			if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
				t.Fatalf("write %s: %v", name, err)
			}
		}
		return Sources{
			Books:     filepath.Join(dir, BooksFile),
			Topics:    filepath.Join(dir, TopicsFile),
			BookNames: filepath.Join(dir, BookNamesFile),
		}
	}

	t.Run("loads files", func(t *testing.T) {
		cat, err := Load(writeDefaults(t), Options{Strict: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n, ok := cat.MaxChapter("Genesis"); !ok || n != 50 {
			t.Errorf("MaxChapter(Genesis) = %d, %v", n, ok)
		}
	})

	t.Run("lenient missing source", func(t *testing.T) {
		src := writeDefaults(t)
		src.Topics = filepath.Join(t.TempDir(), "missing.txt")

		cat, err := Load(src, Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cat.Topics()) != 0 {
			t.Errorf("expected empty topic table, got %d topics", len(cat.Topics()))
		}
		if !cat.IsValidScripture(model.Scripture{Book: "Genesis", Chapter: "1"}) {
			t.Error("books should still load")
		}
	})

	t.Run("strict missing source", func(t *testing.T) {
		src := writeDefaults(t)
		src.Books = filepath.Join(t.TempDir(), "missing.txt")

		_, err := Load(src, Options{Strict: true})
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			t.Fatalf("expected LoadError, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected wrapped ErrNotExist, got %v", err)
		}
	})

	t.Run("malformed file aborts even when lenient", func(t *testing.T) {
		src := writeDefaults(t)
		if err := os.WriteFile(src.Books, []byte("Genesis\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(src, Options{}); !errors.Is(err, ErrMalformedLine) {
			t.Errorf("expected ErrMalformedLine, got %v", err)
		}
	})
}
