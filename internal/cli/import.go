package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/journal"
	"github.com/aidanlsb/insight/internal/journalfile"
	"github.com/aidanlsb/insight/internal/ui"
)

// ImportResult is the JSON payload of `insight import`.
type ImportResult struct {
	Source   string `json:"source"`
	Imported int    `json:"imported"`
	Replaced int    `json:"replaced"`
	Skipped  int    `json:"skipped"`
	Total    int    `json:"total"`
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import entries from a flat text or XML journal",
	Long: `Reads entries from another journal file, finds the references in each entry
and merges them into the workspace journal.

Flat text files (.txt) hold entries separated by a line of five dashes, with
the date on the line after the separator:

  -----
  2024-01-01
  Read Genesis 1 today.

Any references stored in the source are discarded and found again. Entries
whose date already exists are skipped unless --replace is given. A ".xz"
suffix is decompressed.

Examples:
  insight import old-journal.txt
  insight import backup.xml.xz --replace`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		replace, _ := cmd.Flags().GetBool("replace")

		data, err := journalfile.Read(source)
		if err != nil {
			return handleError(codeFor(err, ErrFileReadError), err, "")
		}
		kind := journalfile.KindOf(source)
		if kind == journalfile.KindHTML {
			return handleErrorMsg(ErrInvalidInput, "HTML journals cannot be imported", "Import the .txt or .xml form instead")
		}
		incoming, err := journalfile.Decode(kind, data)
		if err != nil {
			return handleError(codeFor(err, ErrJournalInvalid), err, "")
		}

		f, err := loadFinder(cmd)
		if err != nil {
			return handleError(codeFor(err, ErrCatalogInvalid), err, vocabularyHint)
		}
		journal.ExtractAll(f, incoming)

		j, err := loadJournal()
		if err != nil {
			return handleError(codeFor(err, ErrJournalInvalid), err, "")
		}

		result := ImportResult{Source: source}
		var warnings []Warning
		for _, e := range incoming {
			switch {
			case replace:
				if j.Upsert(e) {
					result.Replaced++
				} else {
					result.Imported++
				}
			case j.Add(e) != nil:
				result.Skipped++
				warnings = append(warnings, Warning{
					Code:    WarnDuplicateDate,
					Message: "entry already exists, skipped",
					Date:    e.Date,
				})
			default:
				result.Imported++
			}
		}
		result.Total = j.Len()

		if _, err := saveJournal(f.Catalog(), j); err != nil {
			return handleError(codeFor(err, ErrFileWriteError), err, "Fix the reported entry and import again")
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(result, warnings, &Meta{Count: result.Imported + result.Replaced})
			return nil
		}

		fmt.Println(ui.Successf("Imported %d entries from %s", result.Imported, ui.FilePath(source)))
		if result.Replaced > 0 {
			fmt.Println(ui.Infof("Replaced %d existing entries", result.Replaced))
		}
		for _, w := range warnings {
			fmt.Println(ui.Warningf("%s: %s", w.Date, w.Message))
		}
		fmt.Println(ui.Hint(fmt.Sprintf("Journal now holds %d entries", result.Total)))
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("replace", false, "Replace existing entries with the same date")
	addVerseRuleFlag(importCmd)
	rootCmd.AddCommand(importCmd)
}
