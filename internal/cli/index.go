package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/insight/internal/index"
	"github.com/aidanlsb/insight/internal/journal"
	"github.com/aidanlsb/insight/internal/ui"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Print the reverse index of books and topics",
	Long: `Validates the journal and prints, for every book and topic, the dates of the
entries that mention it. A date appears once per reference.

With --cached the index is read from the SQLite cache built by
'insight reindex' instead of the journal.

Examples:
  insight index
  insight index --by topic
  insight index --format yaml
  insight index --cached --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		by, _ := cmd.Flags().GetString("by")
		outFormat, _ := cmd.Flags().GetString("format")
		cached, _ := cmd.Flags().GetBool("cached")

		by = strings.ToLower(by)
		if by != "all" && by != "book" && by != "topic" {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown grouping %q", by), "Use --by all, book or topic")
		}

		var (
			ix  *journal.Index
			err error
		)
		if cached {
			ix, err = cachedIndex(cmd.Context())
			if err != nil {
				return handleError(codeFor(err, ErrDatabaseError), err, "Run 'insight reindex' to build the cache")
			}
		} else {
			cat, err := loadCatalog()
			if err != nil {
				return handleError(codeFor(err, ErrCatalogInvalid), err, vocabularyHint)
			}
			j, err := loadJournal()
			if err != nil {
				return handleError(codeFor(err, ErrJournalInvalid), err, "")
			}
			ix, err = journal.ValidateAndIndex(cat, j.Entries())
			if err != nil {
				return handleError(ErrValidationFailed, err, "Run 'insight validate' for details")
			}
		}

		if by == "book" {
			ix.ByTopic = map[string][]string{}
		}
		if by == "topic" {
			ix.ByBook = map[string][]string{}
		}

		if isJSONOutput() {
			outputSuccess(ix, &Meta{Count: len(ix.ByBook) + len(ix.ByTopic)})
			return nil
		}

		switch strings.ToLower(outFormat) {
		case "yaml":
			out, err := yaml.Marshal(ix)
			if err != nil {
				return handleError(ErrInternal, err, "")
			}
			fmt.Print(string(out))
		case "", "table":
			printIndexTable("Book", ix.Books(), ix.ByBook)
			printIndexTable("Topic", ix.Topics(), ix.ByTopic)
			if len(ix.ByBook) == 0 && len(ix.ByTopic) == 0 {
				fmt.Println(ui.Hint("No references indexed."))
			}
		default:
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown format %q", outFormat), "Use --format table or --format yaml")
		}
		return nil
	},
}

func printIndexTable(heading string, names []string, dates map[string][]string) {
	if len(names) == 0 {
		return
	}
	tbl := ui.NewTable(heading, "Refs", "Dates")
	for _, name := range names {
		tbl.AddRow(name, fmt.Sprintf("%d", len(dates[name])), strings.Join(dates[name], ", "))
	}
	fmt.Print(tbl.String())
}

func cachedIndex(ctx context.Context) (*journal.Index, error) {
	db, err := index.Open(getWorkspace())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := db.Snapshot(ctx); err != nil {
		return nil, err
	}
	return db.LoadIndex(ctx)
}

func init() {
	indexCmd.Flags().String("by", "all", "Group to print: all, book or topic")
	indexCmd.Flags().String("format", "table", "Output format when not using --json: table or yaml")
	indexCmd.Flags().Bool("cached", false, "Read the index from the SQLite cache")
	rootCmd.AddCommand(indexCmd)
}
