package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/dates"
	"github.com/aidanlsb/insight/internal/journal"
	"github.com/aidanlsb/insight/internal/ui"
)

// ValidateResult is the JSON payload of `insight validate`.
type ValidateResult struct {
	Journal    string `json:"journal"`
	Entries    int    `json:"entries"`
	Scriptures int    `json:"scriptures"`
	Topics     int    `json:"topics"`
	Books      int    `json:"books"`
	TopicNames int    `json:"distinct_topics"`
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every reference in the journal against the vocabulary",
	Long: `Loads the journal and checks each stored scripture and topic against the
workspace vocabulary. The first invalid reference is reported with the date of
its entry; the journal is only valid when every reference is.

Entry dates that are not YYYY-MM-DD are reported as warnings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return handleError(codeFor(err, ErrCatalogInvalid), err, vocabularyHint)
		}

		j, err := loadJournal()
		if err != nil {
			return handleError(codeFor(err, ErrJournalInvalid), err, "")
		}
		entries := j.Entries()

		ix, err := journal.ValidateAndIndex(cat, entries)
		if err != nil {
			return handleError(ErrValidationFailed, err, "Edit the entry or add the reference to the vocabulary")
		}

		var warnings []Warning
		for _, e := range entries {
			if !dates.IsValidDate(e.Date) {
				warnings = append(warnings, Warning{
					Code:    WarnNonstandardDate,
					Message: "date is not in YYYY-MM-DD form",
					Date:    e.Date,
				})
			}
		}
		if len(entries) == 0 {
			warnings = append(warnings, Warning{Code: WarnEmptyJournal, Message: "journal has no entries"})
		}

		result := ValidateResult{
			Journal:    journalPath(),
			Entries:    len(entries),
			Books:      len(ix.ByBook),
			TopicNames: len(ix.ByTopic),
		}
		for _, e := range entries {
			result.Scriptures += len(e.Scriptures)
			result.Topics += len(e.Topics)
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(result, warnings, &Meta{Count: result.Entries})
			return nil
		}

		fmt.Println(ui.Successf("Journal is valid %s", ui.Hint(ui.Count(result.Entries, "entry", "entries"))))
		fmt.Printf("  %d scriptures across %d books, %d topics across %d names\n",
			result.Scriptures, result.Books, result.Topics, result.TopicNames)
		for _, w := range warnings {
			if w.Date != "" {
				fmt.Println(ui.Warningf("%s: %s", w.Date, w.Message))
			} else {
				fmt.Println(ui.Warning(w.Message))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
