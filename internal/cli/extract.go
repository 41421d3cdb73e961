package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/insight/internal/journalfile"
	"github.com/aidanlsb/insight/internal/model"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Find scriptures and topics in text without saving",
	Long: `Reads text from a file, from stdin, or from --text and prints the scriptures
and topics found in it. The journal is not touched.

Examples:
  insight extract notes.txt
  echo "gen 50 and faith" | insight extract
  insight extract --text "Alma 32:21-23" --verse-rule separated
  insight extract notes.txt --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		outFormat, _ := cmd.Flags().GetString("format")

		if !cmd.Flags().Changed("text") {
			var err error
			text, err = readExtractInput(args)
			if err != nil {
				return handleError(codeFor(err, ErrFileReadError), err, "")
			}
		}

		f, err := loadFinder(cmd)
		if err != nil {
			return handleError(codeFor(err, ErrCatalogInvalid), err, vocabularyHint)
		}

		entry := model.NewEntry("", text)
		f.Extract(entry)
		result := entryResult(entry, false)

		if isJSONOutput() {
			outputSuccess(result, &Meta{Count: len(entry.Scriptures) + len(entry.Topics)})
			return nil
		}

		switch strings.ToLower(outFormat) {
		case "yaml":
			out, err := yaml.Marshal(result)
			if err != nil {
				return handleError(ErrInternal, err, "")
			}
			fmt.Print(string(out))
		case "", "text":
			printReferences(entry)
		default:
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown format %q", outFormat), "Use --format text or --format yaml")
		}
		return nil
	},
}

func readExtractInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := journalfile.Read(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

func init() {
	extractCmd.Flags().String("text", "", "Text to scan instead of a file")
	extractCmd.Flags().String("format", "text", "Output format when not using --json: text or yaml")
	addVerseRuleFlag(extractCmd)
	rootCmd.AddCommand(extractCmd)
}
