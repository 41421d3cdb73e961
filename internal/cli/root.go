// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/config"
	"github.com/aidanlsb/insight/internal/logging"
	"github.com/aidanlsb/insight/internal/ui"
)

var (
	// Global flags
	workspaceFlag string
	configPath    string
	verbose       bool

	// Resolved values
	resolvedWorkspace  string
	resolvedConfigPath string
	cfg                *config.Config
	closeLog           func() error
	currentCommand     string
)

// errReported marks a failure that was already written to the JSON envelope.
var errReported = errors.New("error already reported")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "insight",
	Short: "Insight - a scripture and topic journal",
	Long: `Insight keeps dated journal entries and finds the scripture passages and
topics each entry mentions, checks them against the workspace vocabulary and
indexes entries by the references found.

A workspace is a directory holding insight.toml, the vocabulary files
(books.txt, topics.txt, bookNames.txt) and the journal.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		currentCommand = cmd.Name()

		// Skip workspace resolution for commands that don't need it
		switch cmd.Name() {
		case "init", "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		ws, err := resolveWorkspace(workspaceFlag)
		if err != nil {
			return preRunError(ErrWorkspaceNotFound, err, "Run 'insight init <dir>' to create a workspace")
		}
		resolvedWorkspace = ws

		loaded, source, err := config.Load(ws, configPath)
		if err != nil {
			return preRunError(ErrConfigInvalid, err, "Fix "+config.FileName+" and try again")
		}
		if err := loaded.Validate(); err != nil {
			return preRunError(ErrConfigInvalid, err, "Fix "+config.FileName+" and try again")
		}
		cfg = loaded
		resolvedConfigPath = source

		closeFn, err := logging.Init(logging.Options{
			Level:    cfg.Log.Level,
			Verbose:  verbose,
			ErrorLog: cfg.ErrorLogPath(ws),
		})
		if err != nil {
			return preRunError(ErrConfigInvalid, err, "Check the [log] section of "+config.FileName)
		}
		closeLog = closeFn

		ui.ConfigureTheme(cfg.UI.Accent)

		logging.Debug("workspace resolved", "workspace", ws, "config", source)
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if closeLog != nil {
		_ = closeLog()
	}
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace directory (default: $INSIGHT_WORKSPACE or the current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (replaces insight.toml and the global config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for script use)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging on stderr")
}

// preRunError reports a failure from PersistentPreRunE. Returning nil there
// would let the command run, so JSON mode still returns a sentinel.
func preRunError(code string, err error, suggestion string) error {
	if handled := handleError(code, err, suggestion); handled != nil {
		return handled
	}
	return errReported
}

// resolveWorkspace picks the workspace: explicit flag, then INSIGHT_WORKSPACE,
// then the current directory. The directory must exist.
func resolveWorkspace(flag string) (string, error) {
	dir := strings.TrimSpace(flag)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(config.EnvWorkspace))
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine current directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid workspace path %q: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("workspace not found: %s", abs)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace is not a directory: %s", abs)
	}
	return abs, nil
}

// getWorkspace returns the resolved workspace path.
func getWorkspace() string {
	return resolvedWorkspace
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	return cfg
}
