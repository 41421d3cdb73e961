package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/config"
	"github.com/aidanlsb/insight/internal/format"
	"github.com/aidanlsb/insight/internal/index"
	"github.com/aidanlsb/insight/internal/journal"
	"github.com/aidanlsb/insight/internal/journalfile"
	"github.com/aidanlsb/insight/internal/model"
	"github.com/aidanlsb/insight/internal/testutil"
)

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	defer func() { os.Stdout = orig }()
	fn()
	w.Close()
	return <-done
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation",
			err:  fmt.Errorf("save: %w", &journal.ValidationError{Date: "d", Kind: journal.KindUnknownTopic, Err: journal.ErrUnknownTopic}),
			want: ErrValidationFailed,
		},
		{name: "catalog", err: &catalog.LoadError{Source: "books.txt", Err: os.ErrNotExist}, want: ErrCatalogInvalid},
		{name: "no entries", err: fmt.Errorf("save: %w", format.ErrNoEntries), want: ErrNoEntries},
		{name: "not a journal", err: format.ErrNotJournal, want: ErrJournalInvalid},
		{name: "duplicate", err: journal.ErrDuplicateDate, want: ErrEntryExists},
		{
			name: "duplicate dates on disk",
			err:  fmt.Errorf("journal x: %w", &journal.DuplicateDatesError{Dates: []string{"2014-10-30"}}),
			want: ErrJournalInvalid,
		},
		{name: "not indexed", err: index.ErrNotIndexed, want: ErrNotIndexed},
		{name: "locked", err: index.ErrIndexLocked, want: ErrIndexLocked},
		{name: "missing file", err: fmt.Errorf("read: %w", os.ErrNotExist), want: ErrFileNotFound},
		{name: "other", err: errors.New("boom"), want: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := codeFor(tt.err, ErrInternal); got != tt.want {
				t.Errorf("codeFor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHandleErrorJSONIncludesValidationDetails(t *testing.T) {
	prevJSON := jsonOutput
	t.Cleanup(func() { jsonOutput = prevJSON })
	jsonOutput = true

	vErr := &journal.ValidationError{
		Date:      "2024-01-02",
		Reference: "Enos 1 ",
		Kind:      journal.KindUnknownBook,
		Err:       catalog.ErrUnknownBook,
	}

	var returned error
	out := captureStdout(t, func() {
		returned = handleError(ErrValidationFailed, vErr, "fix it")
	})
	if returned != nil {
		t.Fatalf("JSON mode should swallow the error, got %v", returned)
	}
	for _, want := range []string{`"code": "VALIDATION_FAILED"`, `"kind": "unknown_book"`, `"date": "2024-01-02"`, `"suggestion": "fix it"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestHandleErrorTextAddsSuggestion(t *testing.T) {
	prevJSON := jsonOutput
	t.Cleanup(func() { jsonOutput = prevJSON })
	jsonOutput = false

	base := errors.New("entry not found")
	err := handleError(ErrEntryNotFound, base, "Run 'insight index'")
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Run 'insight index'") {
		t.Errorf("suggestion missing: %q", err.Error())
	}
}

func TestResolveWorkspace(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveWorkspace(dir)
	if err != nil || got != dir {
		t.Fatalf("resolveWorkspace(%q) = %q, %v", dir, got, err)
	}

	t.Setenv(config.EnvWorkspace, dir)
	if got, err := resolveWorkspace(""); err != nil || got != dir {
		t.Errorf("env workspace = %q, %v", got, err)
	}

	if _, err := resolveWorkspace(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for a missing workspace")
	}

	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveWorkspace(file); err == nil {
		t.Error("expected error for a file workspace")
	}
}

func TestInitWorkspace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal")

	result, err := initWorkspace(dir)
	if err != nil {
		t.Fatalf("initWorkspace() failed: %v", err)
	}
	if len(result.Created) != 6 || len(result.Kept) != 0 {
		t.Errorf("first init created %q, kept %q", result.Created, result.Kept)
	}

	for _, name := range []string{config.FileName, catalog.BooksFile, catalog.TopicsFile, catalog.BookNamesFile, ".gitignore"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}

	entries, err := journalfile.Load(filepath.Join(dir, "journal.xml"))
	if err != nil || len(entries) != 0 {
		t.Errorf("empty journal = %d entries, %v", len(entries), err)
	}

	cat, err := catalog.Load(catalog.Sources{
		Books:     filepath.Join(dir, catalog.BooksFile),
		Topics:    filepath.Join(dir, catalog.TopicsFile),
		BookNames: filepath.Join(dir, catalog.BookNamesFile),
	}, catalog.Options{Strict: true})
	if err != nil {
		t.Fatalf("initialized vocabulary should load: %v", err)
	}
	if !cat.IsValidTopic("Faith") {
		t.Error("expected sample vocabulary")
	}

	result, err = initWorkspace(dir)
	if err != nil {
		t.Fatalf("second initWorkspace() failed: %v", err)
	}
	if len(result.Created) != 0 || len(result.Kept) != 6 {
		t.Errorf("second init created %q, kept %q", result.Created, result.Kept)
	}
}

func TestEnsureGitignoreAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	if err := os.WriteFile(path, []byte("*.tmp\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed, err := ensureGitignore(dir)
	if err != nil || !changed {
		t.Fatalf("ensureGitignore() = %v, %v", changed, err)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "*.tmp\n") || !strings.Contains(string(data), ".insight/\n") {
		t.Errorf(".gitignore = %q", data)
	}

	if changed, _ := ensureGitignore(dir); changed {
		t.Error("second call should leave .gitignore alone")
	}
}

func TestResolveTopicName(t *testing.T) {
	cat := testutil.Catalog(t)

	tests := []struct {
		in   string
		want string
	}{
		{in: "Faith", want: "Faith"},
		{in: "stiffnecked", want: "Pride"},
		{in: "unknown", want: "unknown"},
	}
	for _, tt := range tests {
		if got := resolveTopicName(cat, tt.in); got != tt.want {
			t.Errorf("resolveTopicName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadJournalRejectsDuplicateDates(t *testing.T) {
	dir := t.TempDir()
	prevWorkspace, prevCfg := resolvedWorkspace, cfg
	t.Cleanup(func() { resolvedWorkspace, cfg = prevWorkspace, prevCfg })
	resolvedWorkspace = dir
	cfg = config.Default()

	path := journalPath()
	stored := []*model.Entry{
		model.NewEntry("2014-10-30", "morning entry"),
		model.NewEntry("2014-10-30", "evening entry"),
	}
	if err := journalfile.Save(path, stored); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	_, err = loadJournal()
	if err == nil {
		t.Fatal("expected an error for a journal with a repeated date")
	}
	if got := codeFor(err, ErrInternal); got != ErrJournalInvalid {
		t.Errorf("codeFor() = %s, want %s", got, ErrJournalInvalid)
	}
	details, _ := validationDetails(err).(map[string]interface{})
	if dates, _ := details["dates"].([]string); len(dates) != 1 || dates[0] != "2014-10-30" {
		t.Errorf("details = %v", validationDetails(err))
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("loading must not rewrite the journal")
	}
	entries, err := journalfile.Load(path)
	if err != nil || len(entries) != 2 {
		t.Errorf("journal on disk = %d entries, %v", len(entries), err)
	}
}
