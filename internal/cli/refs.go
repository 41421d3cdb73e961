package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/index"
	"github.com/aidanlsb/insight/internal/journalfile"
	"github.com/aidanlsb/insight/internal/ui"
)

// RefsResult is the JSON payload of `insight refs`.
type RefsResult struct {
	Name       string               `json:"name"`
	Kind       string               `json:"kind"`
	Dates      []string             `json:"dates"`
	Scriptures []index.ScriptureRef `json:"scriptures,omitempty"`
}

var refsCmd = &cobra.Command{
	Use:   "refs <book-or-topic>",
	Short: "List the entries that mention a book or topic",
	Long: `Looks up a book, or a topic with --topic, in the SQLite cache and lists the
dates of the entries that mention it. Book aliases and topic synonyms from the
vocabulary are accepted.

Run 'insight reindex' first; a warning is printed when the journal changed
since the cache was built.

Examples:
  insight refs Alma
  insight refs "d&c"
  insight refs --topic faith`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		isTopic, _ := cmd.Flags().GetBool("topic")
		name := strings.TrimSpace(strings.Join(args, " "))

		cat, err := loadCatalog()
		if err != nil {
			return handleError(codeFor(err, ErrCatalogInvalid), err, vocabularyHint)
		}

		db, err := index.Open(getWorkspace())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		if _, err := db.Snapshot(ctx); err != nil {
			return handleError(codeFor(err, ErrDatabaseError), err, "Run 'insight reindex' to build the cache")
		}

		var warnings []Warning
		if stale, err := cachedJournalChanged(db, cmd); err == nil && stale {
			warnings = append(warnings, Warning{Code: WarnStaleIndex, Message: "journal or vocabulary changed since the last reindex"})
		}

		result := RefsResult{Name: name}
		if isTopic {
			result.Kind = "topic"
			result.Name = resolveTopicName(cat, name)
			result.Dates, err = db.DatesForTopic(ctx, result.Name)
		} else {
			result.Kind = "book"
			if book, ok := cat.ResolveBook(name); ok {
				result.Name = book
			}
			result.Scriptures, err = db.ScripturesForBook(ctx, result.Name)
			for _, ref := range result.Scriptures {
				result.Dates = append(result.Dates, ref.Date)
			}
		}
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		if result.Dates == nil {
			result.Dates = []string{}
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(result, warnings, &Meta{Count: len(result.Dates)})
			return nil
		}

		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, ui.Warning(w.Message+", run 'insight reindex'"))
		}
		if len(result.Dates) == 0 {
			fmt.Println(ui.Hint(fmt.Sprintf("No entries mention %s.", result.Name)))
			return nil
		}

		fmt.Printf("%s %s\n", ui.Header(result.Name), ui.Hint(ui.Count(len(result.Dates), "reference", "references")))
		if isTopic {
			for _, date := range result.Dates {
				fmt.Printf("  %s\n", ui.Date(date))
			}
			return nil
		}
		for _, ref := range result.Scriptures {
			fmt.Printf("  %s  %s\n", ui.Date(ref.Date), ref.Scripture.FullTitle())
		}
		return nil
	},
}

// resolveTopicName accepts a canonical topic or one of its synonyms.
func resolveTopicName(cat *catalog.Catalog, name string) string {
	if cat.IsValidTopic(name) {
		return name
	}
	for _, candidate := range []string{name, strings.ToLower(name)} {
		if topic, ok := cat.ResolveTopic(candidate); ok {
			return topic
		}
	}
	return name
}

// cachedJournalChanged reports whether the journal or the vocabulary differ
// from the ones the cache was built from.
func cachedJournalChanged(db *index.Database, cmd *cobra.Command) (bool, error) {
	path := journalPath()
	data, err := journalfile.Read(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	current, err := currentSnapshot(path, data)
	if err != nil {
		return false, err
	}
	return db.IsStale(cmd.Context(), current)
}

func init() {
	refsCmd.Flags().Bool("topic", false, "Look up a topic instead of a book")
	rootCmd.AddCommand(refsCmd)
}
