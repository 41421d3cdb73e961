// Package testutil provides reusable test utilities for insight integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/insight/internal/catalog"
)

// DefaultConfig is the insight.toml written by Build when no config is set.
const DefaultConfig = `books = "books.txt"
topics = "topics.txt"
book_names = "bookNames.txt"
journal = "journal.xml"
strict_sources = true
`

// TestWorkspace represents a temporary journal workspace for testing.
type TestWorkspace struct {
	Path   string
	t      *testing.T
	config string
	files  map[string]string
}

// NewTestWorkspace creates a new test workspace builder.
// Call Build() to create the actual workspace directory.
func NewTestWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:      t,
		config: DefaultConfig,
		files:  make(map[string]string),
	}
}

// WithConfig sets the insight.toml content for the workspace.
func (w *TestWorkspace) WithConfig(toml string) *TestWorkspace {
	w.config = toml
	return w
}

// WithFile adds a file to the workspace.
// The path is relative to the workspace root.
func (w *TestWorkspace) WithFile(path, content string) *TestWorkspace {
	w.files[path] = content
	return w
}

// WithJournal sets the journal.xml content.
func (w *TestWorkspace) WithJournal(xml string) *TestWorkspace {
	w.files["journal.xml"] = xml
	return w
}

// Build creates the workspace directory with the bundled vocabulary files,
// the config and every configured file. Files added with WithFile override
// the bundled vocabulary.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()

	w.Path = w.t.TempDir()

	defaults, err := catalog.DefaultFiles()
	if err != nil {
		w.t.Fatalf("failed to read bundled vocabulary: %v", err)
	}
	for name, data := range defaults {
		if _, overridden := w.files[name]; overridden {
			continue
		}
		w.writeFile(name, string(data))
	}

	if w.config != "" {
		w.writeFile("insight.toml", w.config)
	}

	for path, content := range w.files {
		w.writeFile(path, content)
	}

	return w
}

// ReadFile reads a file from the workspace.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	data, err := os.ReadFile(filepath.Join(w.Path, relPath))
	if err != nil {
		w.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(data)
}

// AssertFileExists fails the test if the file does not exist.
func (w *TestWorkspace) AssertFileExists(relPath string) {
	w.t.Helper()
	if _, err := os.Stat(filepath.Join(w.Path, relPath)); os.IsNotExist(err) {
		w.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (w *TestWorkspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		w.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileNotContains fails the test if the file contains the substring.
func (w *TestWorkspace) AssertFileNotContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if strings.Contains(content, substr) {
		w.t.Errorf("expected file %s to not contain %q, got:\n%s", relPath, substr, content)
	}
}

func (w *TestWorkspace) writeFile(relPath, content string) {
	w.t.Helper()
	fullPath := filepath.Join(w.Path, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		w.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", relPath, err)
	}
}

// Catalog returns the catalog built from the bundled sample vocabulary.
func Catalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load bundled catalog: %v", err)
	}
	return cat
}
