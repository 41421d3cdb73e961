package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/index"
	"github.com/aidanlsb/insight/internal/ui"
)

// StatsResult is the JSON payload of `insight stats`.
type StatsResult struct {
	Indexed    bool          `json:"indexed"`
	Index      *index.Stats  `json:"index,omitempty"`
	Vocabulary catalog.Stats `json:"vocabulary"`
	Config     string        `json:"config,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and vocabulary statistics",
	Long: `Displays counts from the SQLite cache and the workspace vocabulary.

Examples:
  insight stats
  insight stats --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		cat, err := loadCatalog()
		if err != nil {
			return handleError(codeFor(err, ErrCatalogInvalid), err, vocabularyHint)
		}

		db, err := index.Open(getWorkspace())
		if err != nil {
			return handleError(ErrDatabaseError, err, "Run 'insight reindex' to rebuild the database")
		}
		defer db.Close()

		result := StatsResult{Vocabulary: cat.Stats(), Config: resolvedConfigPath}

		if _, err := db.Snapshot(ctx); err == nil {
			stats, err := db.Stats(ctx)
			if err != nil {
				return handleError(ErrDatabaseError, err, "")
			}
			result.Indexed = true
			result.Index = stats
		} else if !errors.Is(err, index.ErrNotIndexed) {
			return handleError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(result, &Meta{QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}

		row := func(label string, n int) {
			fmt.Printf("%s  %s\n", ui.Muted.Render(label), ui.Accent.Render(fmt.Sprintf("%d", n)))
		}

		fmt.Println(ui.Header("Vocabulary"))
		row("Books:         ", result.Vocabulary.Books)
		row("Book aliases:  ", result.Vocabulary.Aliases)
		row("Topics:        ", result.Vocabulary.Topics)
		row("Synonyms:      ", result.Vocabulary.Synonyms)

		fmt.Println()
		fmt.Println(ui.Header("Index"))
		if !result.Indexed {
			fmt.Println(ui.Hint("Not indexed yet. Run 'insight reindex'."))
			return nil
		}
		row("Entries:       ", result.Index.Entries)
		row("Scriptures:    ", result.Index.ScriptureRefs)
		row("Topics:        ", result.Index.TopicRefs)
		row("Books cited:   ", result.Index.DistinctBooks)
		row("Topics cited:  ", result.Index.DistinctTopics)
		row("Schema:        ", result.Index.SchemaVersion)
		if result.Index.IndexedAt != "" {
			fmt.Printf("%s  %s\n", ui.Muted.Render("Indexed at:    "), result.Index.IndexedAt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
