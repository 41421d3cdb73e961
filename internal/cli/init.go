package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/config"
	"github.com/aidanlsb/insight/internal/index"
	"github.com/aidanlsb/insight/internal/journalfile"
	"github.com/aidanlsb/insight/internal/ui"
)

// InitResult is the JSON payload of `insight init`.
type InitResult struct {
	Workspace string   `json:"workspace"`
	Created   []string `json:"created"`
	Kept      []string `json:"kept"`
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a new workspace",
	Long: `Creates a workspace with the sample vocabulary and default configuration.

Creates:
  - insight.toml   (workspace configuration)
  - books.txt      (book names and chapter counts)
  - topics.txt     (topics and their synonyms)
  - bookNames.txt  (book aliases)
  - journal.xml    (empty journal)
  - .insight/      (index directory)
  - .gitignore     (ignores derived files)

Existing files are kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := workspaceFlag
		if len(args) > 0 {
			dir = args[0]
		}
		if dir == "" {
			dir = "."
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		result, err := initWorkspace(abs)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(result, nil)
			return nil
		}

		fmt.Printf("Initializing workspace at: %s\n", ui.FilePath(abs))
		for _, name := range result.Created {
			fmt.Println(ui.Successf("Created %s", name))
		}
		for _, name := range result.Kept {
			fmt.Printf("• %s already exists (kept)\n", name)
		}
		if len(result.Created) > 0 {
			fmt.Println("\nWorkspace initialized! Add an entry with 'insight new'.")
		} else {
			fmt.Println("\nExisting workspace detected. Files preserved.")
		}
		return nil
	},
}

func initWorkspace(dir string) (*InitResult, error) {
	result := &InitResult{Workspace: dir, Created: []string{}, Kept: []string{}}
	record := func(name string, created bool) {
		if created {
			result.Created = append(result.Created, name)
		} else {
			result.Kept = append(result.Kept, name)
		}
	}

	if err := os.MkdirAll(filepath.Join(dir, index.DirName), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	_, created, err := config.CreateDefault(dir)
	if err != nil {
		return nil, err
	}
	record(config.FileName, created)

	files, err := catalog.DefaultFiles()
	if err != nil {
		return nil, err
	}
	for _, name := range []string{catalog.BooksFile, catalog.TopicsFile, catalog.BookNamesFile} {
		created, err := writeIfMissing(filepath.Join(dir, name), files[name])
		if err != nil {
			return nil, err
		}
		record(name, created)
	}

	journalName := config.Default().Journal
	journalFile := filepath.Join(dir, journalName)
	if _, err := os.Stat(journalFile); errors.Is(err, os.ErrNotExist) {
		if err := journalfile.Save(journalFile, nil); err != nil {
			return nil, err
		}
		record(journalName, true)
	} else {
		record(journalName, false)
	}

	created, err = ensureGitignore(dir)
	if err != nil {
		return nil, err
	}
	record(".gitignore", created)

	return result, nil
}

func writeIfMissing(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := journalfile.WriteAtomic(path, data, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// ensureGitignore adds the index directory to .gitignore. It reports whether
// the file changed.
func ensureGitignore(dir string) (bool, error) {
	path := filepath.Join(dir, ".gitignore")
	entry := index.DirName + "/"

	existing := ""
	if data, err := os.ReadFile(path); err == nil {
		existing = string(data)
	}
	for _, line := range strings.Split(existing, "\n") {
		if strings.TrimSpace(line) == entry {
			return false, nil
		}
	}

	content := "# Insight index (rebuilt with 'insight reindex')\n" + entry + "\n"
	if existing != "" {
		content = strings.TrimRight(existing, "\n") + "\n\n" + content
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return true, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
