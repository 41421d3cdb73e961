package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aidanlsb/insight/internal/journal"
	"github.com/aidanlsb/insight/internal/model"
	"github.com/aidanlsb/insight/internal/slugs"
)

// Meta keys.
const (
	metaJournalHash    = "journal_hash"
	metaJournalPath    = "journal_path"
	metaVocabularyHash = "vocabulary_hash"
	metaIndexedAt      = "indexed_at"
)

// Snapshot identifies the journal and vocabulary a cache was built from.
type Snapshot struct {
	JournalPath    string
	JournalHash    string
	VocabularyHash string
}

// Replace rebuilds the cache from entries in a single transaction. Entries are
// expected to have passed journal.ValidateAndIndex.
func (d *Database) Replace(ctx context.Context, entries []*model.Entry, snap Snapshot) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"topic_refs", "scripture_refs", "entries", "meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	ids := slugs.NewSet()
	for pos, e := range entries {
		id := ids.Unique(slugs.EntryID(e.Date))
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entries (id, date, position, text) VALUES (?, ?, ?, ?)`,
			id, e.Date, pos, e.Text); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.Date, err)
		}

		for i, ref := range e.Scriptures {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO scripture_refs (entry_id, book, chapter, start_verse, end_verse, position)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				id, ref.Book, ref.Chapter, ref.StartVerse, ref.EndVerse, i); err != nil {
				return fmt.Errorf("insert scripture %s: %w", ref.FullTitle(), err)
			}
		}

		for i, topic := range e.Topics {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO topic_refs (entry_id, topic, position) VALUES (?, ?, ?)`,
				id, topic, i); err != nil {
				return fmt.Errorf("insert topic %s: %w", topic, err)
			}
		}
	}

	meta := map[string]string{
		metaJournalHash:    snap.JournalHash,
		metaJournalPath:    snap.JournalPath,
		metaVocabularyHash: snap.VocabularyHash,
		metaIndexedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("write meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}

// Snapshot returns the journal and vocabulary identity recorded by the last
// rebuild.
func (d *Database) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	hash, err := d.meta(ctx, metaJournalHash)
	if err != nil {
		return snap, err
	}
	path, err := d.meta(ctx, metaJournalPath)
	if err != nil {
		return snap, err
	}
	// Caches built before the vocabulary was tracked have no hash and are stale.
	vocab, err := d.meta(ctx, metaVocabularyHash)
	if err != nil && !errors.Is(err, ErrNotIndexed) {
		return snap, err
	}
	return Snapshot{JournalPath: path, JournalHash: hash, VocabularyHash: vocab}, nil
}

// IsStale reports whether the cache was built from a journal or vocabulary
// other than current. A cache that was never built is stale.
func (d *Database) IsStale(ctx context.Context, current Snapshot) (bool, error) {
	snap, err := d.Snapshot(ctx)
	if errors.Is(err, ErrNotIndexed) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return snap.JournalHash != current.JournalHash || snap.VocabularyHash != current.VocabularyHash, nil
}

func (d *Database) meta(ctx context.Context, key string) (string, error) {
	var value string
	err := d.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotIndexed
	}
	if err != nil {
		return "", fmt.Errorf("read meta %s: %w", key, err)
	}
	return value, nil
}

// ScriptureRef is a cached scripture together with the date of its entry.
type ScriptureRef struct {
	Date      string          `json:"date"`
	Scripture model.Scripture `json:"scripture"`
}

// ScripturesForBook returns the cached references to a book in journal order.
func (d *Database) ScripturesForBook(ctx context.Context, book string) ([]ScriptureRef, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT e.date, s.book, s.chapter, s.start_verse, s.end_verse
		FROM scripture_refs s
		JOIN entries e ON e.id = s.entry_id
		WHERE s.book = ?
		ORDER BY e.position, s.position`, book)
	if err != nil {
		return nil, fmt.Errorf("query scriptures: %w", err)
	}
	defer rows.Close()

	var refs []ScriptureRef
	for rows.Next() {
		var r ScriptureRef
		if err := rows.Scan(&r.Date, &r.Scripture.Book, &r.Scripture.Chapter,
			&r.Scripture.StartVerse, &r.Scripture.EndVerse); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// DatesForBook returns one date per cached reference to book, in journal order.
func (d *Database) DatesForBook(ctx context.Context, book string) ([]string, error) {
	return d.dates(ctx, `
		SELECT e.date FROM scripture_refs s
		JOIN entries e ON e.id = s.entry_id
		WHERE s.book = ?
		ORDER BY e.position, s.position`, book)
}

// DatesForTopic returns the dates of the entries tagged with topic, in journal order.
func (d *Database) DatesForTopic(ctx context.Context, topic string) ([]string, error) {
	return d.dates(ctx, `
		SELECT e.date FROM topic_refs t
		JOIN entries e ON e.id = t.entry_id
		WHERE t.topic = ?
		ORDER BY e.position, t.position`, topic)
}

func (d *Database) dates(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// LoadIndex rebuilds the reverse index from the cache.
func (d *Database) LoadIndex(ctx context.Context) (*journal.Index, error) {
	ix := journal.NewIndex()

	if err := d.collect(ctx, `
		SELECT s.book, e.date FROM scripture_refs s
		JOIN entries e ON e.id = s.entry_id
		ORDER BY e.position, s.position`, ix.ByBook); err != nil {
		return nil, err
	}
	if err := d.collect(ctx, `
		SELECT t.topic, e.date FROM topic_refs t
		JOIN entries e ON e.id = t.entry_id
		ORDER BY e.position, t.position`, ix.ByTopic); err != nil {
		return nil, err
	}
	return ix, nil
}

func (d *Database) collect(ctx context.Context, query string, into map[string][]string) error {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query index: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, date string
		if err := rows.Scan(&key, &date); err != nil {
			return err
		}
		into[key] = append(into[key], date)
	}
	return rows.Err()
}

// Stats summarizes the cache.
type Stats struct {
	Entries        int    `json:"entries" yaml:"entries"`
	ScriptureRefs  int    `json:"scripture_refs" yaml:"scripture_refs"`
	TopicRefs      int    `json:"topic_refs" yaml:"topic_refs"`
	DistinctBooks  int    `json:"distinct_books" yaml:"distinct_books"`
	DistinctTopics int    `json:"distinct_topics" yaml:"distinct_topics"`
	SchemaVersion  int    `json:"schema_version" yaml:"schema_version"`
	IndexedAt      string `json:"indexed_at,omitempty" yaml:"indexed_at,omitempty"`
}

// Stats returns cache counts.
func (d *Database) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM entries", &stats.Entries},
		{"SELECT COUNT(*) FROM scripture_refs", &stats.ScriptureRefs},
		{"SELECT COUNT(*) FROM topic_refs", &stats.TopicRefs},
		{"SELECT COUNT(DISTINCT book) FROM scripture_refs", &stats.DistinctBooks},
		{"SELECT COUNT(DISTINCT topic) FROM topic_refs", &stats.DistinctTopics},
	}
	for _, c := range counts {
		if err := d.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}

	indexedAt, err := d.meta(ctx, metaIndexedAt)
	if err != nil && !errors.Is(err, ErrNotIndexed) {
		return nil, err
	}
	stats.IndexedAt = indexedAt

	if stats.SchemaVersion, err = d.SchemaVersion(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}
