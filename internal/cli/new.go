package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/dates"
	"github.com/aidanlsb/insight/internal/journal"
	"github.com/aidanlsb/insight/internal/model"
	"github.com/aidanlsb/insight/internal/ui"
)

// EntryResult describes one entry in JSON output.
type EntryResult struct {
	Date       string            `json:"date" yaml:"date"`
	Text       string            `json:"text,omitempty" yaml:"text,omitempty"`
	Scriptures []model.Scripture `json:"scriptures" yaml:"scriptures"`
	Topics     []string          `json:"topics" yaml:"topics"`
}

func entryResult(e *model.Entry, withText bool) EntryResult {
	r := EntryResult{
		Date:       e.Date,
		Scriptures: e.Scriptures,
		Topics:     e.Topics,
	}
	if r.Scriptures == nil {
		r.Scriptures = []model.Scripture{}
	}
	if r.Topics == nil {
		r.Topics = []string{}
	}
	if withText {
		r.Text = e.Text
	}
	return r
}

var newCmd = &cobra.Command{
	Use:   "new [text...]",
	Short: "Add a dated journal entry",
	Long: `Creates a journal entry, finds the scriptures and topics it mentions and
saves the journal.

The text comes from the arguments, or from stdin when no arguments are given.
The date defaults to today.

Examples:
  insight new "Read Alma 32:21 about faith"
  insight new --date yesterday "Studied 2 Nephi 31"
  cat notes.txt | insight new --date 2024-03-01
  insight new --date 2024-03-01 --replace "Corrected text"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dateArg, _ := cmd.Flags().GetString("date")
		replace, _ := cmd.Flags().GetBool("replace")

		date, err := dates.EntryDate(dateArg, time.Now())
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		text, err := readInput(args)
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		if strings.TrimSpace(text) == "" {
			return handleErrorMsg(ErrMissingArgument, "entry text is required", "Pass the text as arguments or pipe it on stdin")
		}

		f, err := loadFinder(cmd)
		if err != nil {
			return handleError(codeFor(err, ErrCatalogInvalid), err, vocabularyHint)
		}

		j, err := loadJournal()
		if err != nil {
			return handleError(codeFor(err, ErrJournalInvalid), err, "")
		}

		entry := model.NewEntry(date, text)
		f.Extract(entry)

		replaced := false
		if replace {
			replaced = j.Upsert(entry)
		} else if err := j.Add(entry); err != nil {
			if errors.Is(err, journal.ErrDuplicateDate) {
				return handleError(ErrEntryExists, err, "Use --replace to overwrite the existing entry")
			}
			return handleError(ErrInternal, err, "")
		}

		if _, err := saveJournal(f.Catalog(), j); err != nil {
			return handleError(codeFor(err, ErrFileWriteError), err, "Fix the reported entry in the journal and try again")
		}

		if isJSONOutput() {
			outputSuccess(struct {
				EntryResult
				Replaced bool   `json:"replaced"`
				Journal  string `json:"journal"`
			}{entryResult(entry, false), replaced, journalPath()}, nil)
			return nil
		}

		verb := "Added"
		if replaced {
			verb = "Replaced"
		}
		fmt.Println(ui.Successf("%s entry %s", verb, ui.Accent.Render(entry.Date)))
		printReferences(entry)
		return nil
	},
}

// printReferences writes the scriptures and topics of an entry as lists.
func printReferences(e *model.Entry) {
	if len(e.Scriptures) == 0 && len(e.Topics) == 0 {
		fmt.Println(ui.Hint("  no scriptures or topics found"))
		return
	}
	if len(e.Scriptures) > 0 {
		fmt.Printf("%s %s\n", ui.Header("Scriptures"), ui.Hint(ui.Count(len(e.Scriptures), "reference", "references")))
		l := ui.NewList()
		for _, title := range scriptureTitles(e.Scriptures) {
			l.Add(title)
		}
		fmt.Print(l.String())
	}
	if len(e.Topics) > 0 {
		fmt.Printf("%s %s\n", ui.Header("Topics"), ui.Hint(ui.Count(len(e.Topics), "topic", "topics")))
		l := ui.NewList()
		for _, topic := range e.Topics {
			l.Add(topic)
		}
		fmt.Print(l.String())
	}
}

func init() {
	newCmd.Flags().String("date", "", "Entry date: today, yesterday, tomorrow or YYYY-MM-DD (default today)")
	newCmd.Flags().Bool("replace", false, "Replace an existing entry with the same date")
	addVerseRuleFlag(newCmd)
	rootCmd.AddCommand(newCmd)
}
