package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/insight/internal/finder"
	"github.com/aidanlsb/insight/internal/journalfile"
)

type persistedConfig struct {
	Books         *string              `toml:"books,omitempty"`
	Topics        *string              `toml:"topics,omitempty"`
	BookNames     *string              `toml:"book_names,omitempty"`
	Journal       *string              `toml:"journal,omitempty"`
	StrictSources bool                 `toml:"strict_sources"`
	VerseRule     *finder.VerseRule    `toml:"verse_rule,omitempty"`
	Log           *persistedLogConfig  `toml:"log,omitempty"`
	UI            *persistedUISettings `toml:"ui,omitempty"`
}

type persistedLogConfig struct {
	Level    *string `toml:"level,omitempty"`
	ErrorLog *string `toml:"error_log,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the config to a specific path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = Default()
	}

	out := persistedConfig{
		Books:         nonEmptyPtr(cfg.Books),
		Topics:        nonEmptyPtr(cfg.Topics),
		BookNames:     nonEmptyPtr(cfg.BookNames),
		Journal:       nonEmptyPtr(cfg.Journal),
		StrictSources: cfg.StrictSources,
	}
	if cfg.VerseRule != finder.VerseRuleObserved {
		rule := cfg.VerseRule
		out.VerseRule = &rule
	}

	level := nonEmptyPtr(cfg.Log.Level)
	errorLog := nonEmptyPtr(cfg.Log.ErrorLog)
	if level != nil || errorLog != nil {
		out.Log = &persistedLogConfig{Level: level, ErrorLog: errorLog}
	}

	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := journalfile.WriteAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}

// DefaultFileContent is the commented insight.toml written by `insight init`.
const DefaultFileContent = `# insight workspace configuration

# Vocabulary files, relative to this directory.
books = "books.txt"
topics = "topics.txt"
book_names = "bookNames.txt"

# Journal file. Use a ".txt" name for the flat text form and add ".xz" to
# store it compressed, e.g. "journal.xml.xz".
journal = "journal.xml"

# Fail when a vocabulary file is missing instead of using an empty table.
strict_sources = false

# How a citation's start verse ends:
#   observed  - the start verse takes the rest of the citation ("21-23")
#   separated - "," or "-" ends it and the end verse follows ("21" to "23")
# verse_rule = "observed"

[log]
# debug, info, warn or error
level = "warn"
# Errors are also appended here when set.
# error_log = "insight-errors.log"

# Optional accent color for headers and entry dates in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

// CreateDefault writes DefaultFileContent to the workspace unless a config
// already exists. It returns the config path and whether it was created.
func CreateDefault(workspace string) (string, bool, error) {
	path := ResolvePath(workspace, FileName)

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := journalfile.WriteAtomic(path, []byte(DefaultFileContent), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, true, nil
}
