package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/model"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testEntries() []*model.Entry {
	first := model.NewEntry("2024-01-01", "first")
	first.AddScripture(model.Scripture{Book: "Genesis", Chapter: "1"})
	first.AddScripture(model.Scripture{Book: "Genesis", Chapter: "3", StartVerse: "2"})
	first.AddTopic("Faith")

	second := model.NewEntry("2024-01-02", "second")
	second.AddScripture(model.Scripture{Book: "Alma", Chapter: "32", StartVerse: "21"})
	second.AddScripture(model.Scripture{Book: "Genesis", Chapter: "50"})
	second.AddTopic("Faith")
	second.AddTopic("Hope")

	return []*model.Entry{first, second}
}

func TestDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("initialization", func(t *testing.T) {
		db := openTestDB(t)

		stats, err := db.Stats(ctx)
		if err != nil {
			t.Fatalf("failed to get stats: %v", err)
		}
		if stats.Entries != 0 || stats.IndexedAt != "" {
			t.Errorf("expected empty stats, got %+v", stats)
		}

		version, err := db.SchemaVersion(ctx)
		if err != nil {
			t.Fatalf("SchemaVersion() failed: %v", err)
		}
		latest, err := LatestSchemaVersion()
		if err != nil {
			t.Fatalf("LatestSchemaVersion() failed: %v", err)
		}
		if version != int(latest) {
			t.Errorf("schema version = %d, want latest embedded %d", version, latest)
		}

		if _, err := db.Snapshot(ctx); !errors.Is(err, ErrNotIndexed) {
			t.Errorf("Snapshot() error = %v, want ErrNotIndexed", err)
		}
	})

	t.Run("replace and query", func(t *testing.T) {
		db := openTestDB(t)

		if err := db.Replace(ctx, testEntries(), Snapshot{JournalPath: "journal.xml", JournalHash: "abc"}); err != nil {
			t.Fatalf("Replace() failed: %v", err)
		}

		dates, err := db.DatesForBook(ctx, "Genesis")
		if err != nil {
			t.Fatal(err)
		}
		if want := []string{"2024-01-01", "2024-01-01", "2024-01-02"}; !reflect.DeepEqual(dates, want) {
			t.Errorf("DatesForBook(Genesis) = %q, want %q", dates, want)
		}

		dates, err = db.DatesForTopic(ctx, "Faith")
		if err != nil {
			t.Fatal(err)
		}
		if want := []string{"2024-01-01", "2024-01-02"}; !reflect.DeepEqual(dates, want) {
			t.Errorf("DatesForTopic(Faith) = %q, want %q", dates, want)
		}

		refs, err := db.ScripturesForBook(ctx, "Genesis")
		if err != nil {
			t.Fatal(err)
		}
		if len(refs) != 3 || refs[1].Scripture.StartVerse != "2" || refs[2].Date != "2024-01-02" {
			t.Errorf("ScripturesForBook(Genesis) = %+v", refs)
		}

		stats, err := db.Stats(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := Stats{Entries: 2, ScriptureRefs: 4, TopicRefs: 3, DistinctBooks: 2, DistinctTopics: 2, SchemaVersion: 1}
		stats.IndexedAt = ""
		if *stats != want {
			t.Errorf("Stats() = %+v, want %+v", *stats, want)
		}

		snap, err := db.Snapshot(ctx)
		if err != nil || snap.JournalHash != "abc" || snap.JournalPath != "journal.xml" {
			t.Errorf("Snapshot() = %+v, %v", snap, err)
		}
	})

	t.Run("replace discards previous contents", func(t *testing.T) {
		db := openTestDB(t)

		if err := db.Replace(ctx, testEntries(), Snapshot{}); err != nil {
			t.Fatal(err)
		}
		if err := db.Replace(ctx, testEntries()[:1], Snapshot{}); err != nil {
			t.Fatal(err)
		}

		dates, err := db.DatesForTopic(ctx, "Hope")
		if err != nil {
			t.Fatal(err)
		}
		if len(dates) != 0 {
			t.Errorf("expected Hope to be gone, got %q", dates)
		}
	})

	t.Run("duplicate dates get distinct ids", func(t *testing.T) {
		db := openTestDB(t)

		entries := []*model.Entry{model.NewEntry("Jan 5", "a"), model.NewEntry("jan-5", "b")}
		if err := db.Replace(ctx, entries, Snapshot{}); err != nil {
			t.Fatalf("Replace() failed: %v", err)
		}
	})

	t.Run("load index", func(t *testing.T) {
		db := openTestDB(t)
		if err := db.Replace(ctx, testEntries(), Snapshot{}); err != nil {
			t.Fatal(err)
		}

		ix, err := db.LoadIndex(ctx)
		if err != nil {
			t.Fatalf("LoadIndex() failed: %v", err)
		}
		if got := ix.Books(); !reflect.DeepEqual(got, []string{"Alma", "Genesis"}) {
			t.Errorf("Books() = %q", got)
		}
		if got := ix.ByTopic["Hope"]; !reflect.DeepEqual(got, []string{"2024-01-02"}) {
			t.Errorf("ByTopic[Hope] = %q", got)
		}
	})
}

func TestIsStale(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	current := Snapshot{JournalHash: Hash([]byte("<journal></journal>")), VocabularyHash: "vocab-1"}

	stale, err := db.IsStale(ctx, current)
	if err != nil || !stale {
		t.Errorf("never-built cache: IsStale() = %v, %v", stale, err)
	}

	if err := db.Replace(ctx, nil, current); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{name: "unchanged", snap: current, want: false},
		{
			name: "changed journal",
			snap: Snapshot{JournalHash: Hash([]byte("<journal><entry/></journal>")), VocabularyHash: "vocab-1"},
			want: true,
		},
		{
			name: "changed vocabulary",
			snap: Snapshot{JournalHash: current.JournalHash, VocabularyHash: "vocab-2"},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stale, err := db.IsStale(ctx, tt.snap)
			if err != nil || stale != tt.want {
				t.Errorf("IsStale() = %v, %v, want %v", stale, err, tt.want)
			}
		})
	}

	snap, err := db.Snapshot(ctx)
	if err != nil || snap.VocabularyHash != "vocab-1" {
		t.Errorf("Snapshot() = %+v, %v", snap, err)
	}
}

func TestHashSources(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	src := catalog.Sources{
		Books:     write("books.txt", "Genesis:50\n"),
		Topics:    write("topics.txt", "Faith:faith\n"),
		BookNames: write("bookNames.txt", "Genesis:gen\n"),
	}

	first, err := HashSources(src)
	if err != nil {
		t.Fatalf("HashSources() failed: %v", err)
	}
	if again, _ := HashSources(src); again != first {
		t.Error("HashSources() should be deterministic")
	}

	write("topics.txt", "Faith:faith,believe\n")
	changed, err := HashSources(src)
	if err != nil || changed == first {
		t.Errorf("editing a vocabulary file should change the hash: %v", err)
	}

	// Moving a line between tables must not hash the same.
	swapped := catalog.Sources{Books: src.Topics, Topics: src.Books, BookNames: src.BookNames}
	if got, _ := HashSources(swapped); got == changed {
		t.Error("table order should be part of the hash")
	}

	missing := src
	missing.BookNames = filepath.Join(dir, "absent.txt")
	if got, err := HashSources(missing); err != nil || got == changed {
		t.Errorf("missing source: %q, %v", got, err)
	}
}

func TestHash(t *testing.T) {
	a := Hash([]byte("journal"))
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}
	if a != Hash([]byte("journal")) {
		t.Error("Hash() should be deterministic")
	}
	if a == Hash([]byte("journal!")) {
		t.Error("different contents should hash differently")
	}
}

func TestOpenWorkspace(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := db.Replace(context.Background(), testEntries(), Snapshot{JournalHash: "h"}); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := os.Stat(PathFor(dir)); err != nil {
		t.Fatalf("expected cache file: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	snap, err := reopened.Snapshot(context.Background())
	if err != nil || snap.JournalHash != "h" {
		t.Errorf("Snapshot() after reopen = %+v, %v", snap, err)
	}
}

func TestAcquireLock(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock() failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Errorf("second Release() should be a no-op, got %v", err)
	}

	again, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock() after release failed: %v", err)
	}
	again.Release()
}
