package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/dates"
	"github.com/aidanlsb/insight/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <date>",
	Short: "Display a journal entry",
	Long: `Shows one entry with its scriptures and topics, rendered as markdown.

The date may be today, yesterday, tomorrow, YYYY-MM-DD, or any date string
stored in the journal.

Examples:
  insight show today
  insight show 2024-03-01
  insight show 2024-03-01 --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		date := args[0]
		if resolved, err := dates.EntryDate(date, time.Now()); err == nil {
			date = resolved
		}

		j, err := loadJournal()
		if err != nil {
			return handleError(codeFor(err, ErrJournalInvalid), err, "")
		}

		entry, ok := j.Find(date)
		if !ok && date != args[0] {
			entry, ok = j.Find(args[0])
		}
		if !ok {
			return handleErrorMsg(ErrEntryNotFound, fmt.Sprintf("no entry dated %s", date), "Run 'insight index' to see entry dates")
		}

		if isJSONOutput() {
			outputSuccess(entryResult(entry, true), nil)
			return nil
		}

		md := ui.EntryMarkdown(entry)
		out := ui.DetectTerminal(os.Stdout)
		if raw || !out.IsTTY {
			fmt.Print(md)
			return nil
		}

		rendered, err := ui.RenderMarkdown(md, out.PageWidth())
		if err != nil {
			fmt.Print(md)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "Print markdown without terminal rendering")
	rootCmd.AddCommand(showCmd)
}
