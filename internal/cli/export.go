package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/format"
	"github.com/aidanlsb/insight/internal/journal"
	"github.com/aidanlsb/insight/internal/journalfile"
	"github.com/aidanlsb/insight/internal/ui"
)

// ExportResult is the JSON payload of `insight export`.
type ExportResult struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	Compressed bool   `json:"compressed"`
	Entries    int    `json:"entries"`
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the journal as XML, flat text or HTML",
	Long: `Writes the workspace journal to another file. The format follows the file
extension (.xml, .txt, .html) unless --format is given, and a ".xz" suffix
compresses the output.

The HTML form renders each entry body as markdown and ends with the
scripture and topic index. It requires a journal that passes validation.

Examples:
  insight export backup.xml.xz
  insight export journal.txt
  insight export site/index.html --title "Study journal"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := args[0]
		formatName, _ := cmd.Flags().GetString("format")
		title, _ := cmd.Flags().GetString("title")

		kind := journalfile.KindOf(out)
		if strings.TrimSpace(formatName) != "" {
			var err error
			kind, err = journalfile.ParseKind(formatName)
			if err != nil {
				return handleError(ErrInvalidInput, err, "")
			}
		}

		j, err := loadJournal()
		if err != nil {
			return handleError(codeFor(err, ErrJournalInvalid), err, "")
		}
		entries := j.Entries()

		var data []byte
		if kind == journalfile.KindHTML {
			cat, err := loadCatalog()
			if err != nil {
				return handleError(codeFor(err, ErrCatalogInvalid), err, vocabularyHint)
			}
			ix, err := journal.ValidateAndIndex(cat, entries)
			if err != nil {
				return handleError(ErrValidationFailed, err, "Run 'insight validate' for details")
			}
			var buf bytes.Buffer
			if err := format.BuildHTML(&buf, title, entries, ix); err != nil {
				return handleError(ErrInternal, err, "")
			}
			data = buf.Bytes()
		} else {
			data, err = journalfile.Encode(kind, entries)
			if err != nil {
				return handleError(codeFor(err, ErrInternal), err, "")
			}
		}

		if err := journalfile.Write(out, data); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		result := ExportResult{
			Path:       out,
			Format:     kind.String(),
			Compressed: journalfile.IsCompressed(out),
			Entries:    len(entries),
		}

		if isJSONOutput() {
			outputSuccess(result, &Meta{Count: len(entries)})
			return nil
		}

		fmt.Println(ui.Successf("Exported %d entries to %s (%s)", len(entries), ui.FilePath(out), result.Format))
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "", "Output format: xml, text or html (default from extension)")
	exportCmd.Flags().String("title", "Journal", "Page title for HTML export")
	rootCmd.AddCommand(exportCmd)
}
