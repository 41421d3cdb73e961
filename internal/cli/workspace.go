package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/finder"
	"github.com/aidanlsb/insight/internal/journal"
	"github.com/aidanlsb/insight/internal/journalfile"
	"github.com/aidanlsb/insight/internal/logging"
	"github.com/aidanlsb/insight/internal/model"
)

// verseRuleFlag overrides verse_rule for commands that extract.
var verseRuleFlag finder.VerseRule

func addVerseRuleFlag(cmd *cobra.Command) {
	cmd.Flags().Var(&verseRuleFlag, "verse-rule", "How start verses end: observed or separated (default from config)")
}

// loadCatalog reads the workspace vocabulary.
func loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(getConfig().Sources(getWorkspace()), catalog.Options{
		Strict: getConfig().StrictSources,
		Logger: logging.Logger(),
	})
}

// loadFinder reads the vocabulary and compiles its patterns.
func loadFinder(cmd *cobra.Command) (*finder.Finder, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	rule := getConfig().VerseRule
	if f := cmd.Flags().Lookup("verse-rule"); f != nil && f.Changed {
		rule = verseRuleFlag
	}

	return finder.Compile(cat, finder.Options{VerseRule: rule, Logger: logging.Logger()})
}

// journalPath returns the configured journal file.
func journalPath() string {
	return getConfig().JournalPath(getWorkspace())
}

// loadJournal reads the workspace journal. A journal that does not exist yet
// is empty. A journal with two entries on one date is rejected so that a later
// save cannot drop either of them.
func loadJournal() (*journal.Journal, error) {
	path := journalPath()
	entries, err := journalfile.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Debug("journal not found, starting empty", "path", path)
		return journal.New(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read journal %s: %w", path, err)
	}
	j, err := journal.New(entries)
	if err != nil {
		return nil, fmt.Errorf("journal %s: %w", path, err)
	}
	return j, nil
}

// saveJournal validates every entry against the catalog and writes the
// journal. Nothing is written when validation fails.
func saveJournal(cat *catalog.Catalog, j *journal.Journal) (*journal.Index, error) {
	entries := j.Entries()
	ix, err := journal.ValidateAndIndex(cat, entries)
	if err != nil {
		return nil, err
	}
	if err := journalfile.Save(journalPath(), entries); err != nil {
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}
	logging.Info("journal saved", "path", journalPath(), "entries", len(entries))
	return ix, nil
}

// readInput returns the joined args, or stdin when there are none and stdin
// is not a terminal.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// scriptureTitles lists full titles for text output.
func scriptureTitles(refs []model.Scripture) []string {
	titles := make([]string, len(refs))
	for i, r := range refs {
		titles[i] = r.FullTitle()
	}
	return titles
}

const vocabularyHint = "Check the vocabulary files named in insight.toml"
