package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/index"
	"github.com/aidanlsb/insight/internal/journal"
	"github.com/aidanlsb/insight/internal/journalfile"
	"github.com/aidanlsb/insight/internal/logging"
	"github.com/aidanlsb/insight/internal/model"
	"github.com/aidanlsb/insight/internal/ui"
)

// ReindexResult is the JSON payload of `insight reindex`.
type ReindexResult struct {
	UpToDate      bool   `json:"up_to_date"`
	Entries       int    `json:"entries"`
	ScriptureRefs int    `json:"scripture_refs"`
	TopicRefs     int    `json:"topic_refs"`
	Database      string `json:"database"`
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Validate the journal and rebuild the SQLite cache",
	Long: `Validates the journal and stores its entries and references in
.insight/index.db, which 'insight refs', 'insight stats' and
'insight index --cached' read from.

The cache remembers hashes of the journal and the vocabulary files it was built
from and is left alone when neither has changed. Use --force to rebuild anyway.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		force, _ := cmd.Flags().GetBool("force")
		start := time.Now()
		workspace := getWorkspace()

		lock, err := index.AcquireLock(workspace)
		if err != nil {
			return handleError(codeFor(err, ErrDatabaseError), err, "Wait for the other rebuild to finish")
		}
		defer lock.Release()

		path := journalPath()
		data, err := journalfile.Read(path)
		missing := errors.Is(err, os.ErrNotExist)
		if err != nil && !missing {
			return handleError(ErrFileReadError, err, "")
		}

		db, err := index.Open(workspace)
		if err != nil {
			return handleError(ErrDatabaseError, err, "Delete .insight/index.db and run 'insight reindex' again")
		}
		defer db.Close()

		result := ReindexResult{Database: index.PathFor(workspace)}

		current, err := currentSnapshot(path, data)
		if err != nil {
			return handleError(ErrFileReadError, err, vocabularyHint)
		}

		if !force {
			stale, err := db.IsStale(ctx, current)
			if err != nil {
				return handleError(ErrDatabaseError, err, "Run 'insight reindex --force'")
			}
			if !stale {
				stats, err := db.Stats(ctx)
				if err != nil {
					return handleError(ErrDatabaseError, err, "")
				}
				result.UpToDate = true
				result.Entries = stats.Entries
				result.ScriptureRefs = stats.ScriptureRefs
				result.TopicRefs = stats.TopicRefs
				return reportReindex(result, start)
			}
		}

		var entries []*model.Entry
		if !missing {
			entries, err = journalfile.Decode(journalfile.KindOf(path), data)
			if err != nil {
				return handleError(codeFor(err, ErrJournalInvalid), err, "")
			}
		}
		if _, err := journal.New(entries); err != nil {
			return handleError(codeFor(err, ErrJournalInvalid), err, "Give each entry its own date and run 'insight reindex' again")
		}

		cat, err := loadCatalog()
		if err != nil {
			return handleError(codeFor(err, ErrCatalogInvalid), err, vocabularyHint)
		}
		if _, err := journal.ValidateAndIndex(cat, entries); err != nil {
			return handleError(ErrValidationFailed, err, "Run 'insight validate' for details")
		}

		if err := db.Replace(ctx, entries, current); err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		result.Entries = len(entries)
		for _, e := range entries {
			result.ScriptureRefs += len(e.Scriptures)
			result.TopicRefs += len(e.Topics)
		}
		logging.Timed("reindex", start, "entries", result.Entries)
		return reportReindex(result, start)
	},
}

// currentSnapshot identifies the journal contents and the vocabulary files the
// cache would be built from.
func currentSnapshot(journalPath string, data []byte) (index.Snapshot, error) {
	vocab, err := index.HashSources(getConfig().Sources(getWorkspace()))
	if err != nil {
		return index.Snapshot{}, err
	}
	return index.Snapshot{
		JournalPath:    journalPath,
		JournalHash:    index.Hash(data),
		VocabularyHash: vocab,
	}, nil
}

func reportReindex(result ReindexResult, start time.Time) error {
	if isJSONOutput() {
		outputSuccess(result, &Meta{Count: result.Entries, QueryTimeMs: time.Since(start).Milliseconds()})
		return nil
	}
	if result.UpToDate {
		fmt.Println(ui.Infof("Index is up to date %s", ui.Hint(ui.Count(result.Entries, "entry", "entries"))))
		return nil
	}
	fmt.Println(ui.Successf("Indexed %d entries (%d scriptures, %d topics)",
		result.Entries, result.ScriptureRefs, result.TopicRefs))
	return nil
}

func init() {
	reindexCmd.Flags().Bool("force", false, "Rebuild even when the journal is unchanged")
	rootCmd.AddCommand(reindexCmd)
}
