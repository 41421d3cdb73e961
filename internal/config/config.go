// Package config handles insight workspace configuration.
//
// A workspace is a directory holding insight.toml, the vocabulary files and the
// journal. Settings are read from, in increasing priority: built-in defaults,
// the global config file, the workspace insight.toml, the workspace .env file,
// and INSIGHT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/finder"
)

// FileName is the workspace config file.
const FileName = "insight.toml"

// Config represents the workspace configuration.
type Config struct {
	// Books, Topics and BookNames are the vocabulary files, relative to the workspace.
	Books     string `toml:"books"`
	Topics    string `toml:"topics"`
	BookNames string `toml:"book_names"`

	// Journal is the journal file. A ".xz" suffix stores it compressed.
	Journal string `toml:"journal"`

	// StrictSources makes a missing vocabulary file an error instead of an empty table.
	StrictSources bool `toml:"strict_sources"`

	// VerseRule selects how start verses end: "observed" or "separated".
	VerseRule finder.VerseRule `toml:"verse_rule"`

	Log LogConfig `toml:"log"`
	UI  UIConfig  `toml:"ui"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// ErrorLog, when set, receives error-level records in addition to stderr.
	ErrorLog string `toml:"error_log"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent colors headers, books and topics in terminal output and the date
	// heading of rendered entries. ANSI codes ("0" to "255") or "#RRGGBB".
	Accent string `toml:"accent"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Books:     catalog.BooksFile,
		Topics:    catalog.TopicsFile,
		BookNames: catalog.BookNamesFile,
		Journal:   "journal.xml",
		Log:       LogConfig{Level: "warn"},
	}
}

// Load resolves the configuration of a workspace. When explicit is non-empty
// that file is used instead of the workspace and global files and must exist.
// It returns the config file that was read, or "" when only defaults applied.
func Load(workspace, explicit string) (*Config, string, error) {
	cfg := Default()
	source := ""

	if explicit != "" {
		if err := decodeInto(explicit, cfg); err != nil {
			return nil, "", err
		}
		source = explicit
	} else {
		for _, candidate := range []string{GlobalPath(), filepath.Join(workspace, FileName)} {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if err := decodeInto(candidate, cfg); err != nil {
				return nil, "", err
			}
			source = candidate
		}
	}

	if err := applyEnv(cfg, workspace); err != nil {
		return nil, "", err
	}

	return cfg, source, nil
}

// LoadFrom loads the configuration from a specific path on top of the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if err := decodeInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeInto(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// GlobalPath returns the per-user config file ($XDG_CONFIG_HOME/insight/config.toml).
func GlobalPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "insight", "config.toml")
}

// Sources returns the vocabulary file paths resolved against the workspace.
func (c *Config) Sources(workspace string) catalog.Sources {
	return catalog.Sources{
		Books:     ResolvePath(workspace, c.Books),
		Topics:    ResolvePath(workspace, c.Topics),
		BookNames: ResolvePath(workspace, c.BookNames),
	}
}

// JournalPath returns the journal file resolved against the workspace.
func (c *Config) JournalPath(workspace string) string {
	return ResolvePath(workspace, c.Journal)
}

// ErrorLogPath returns the error log resolved against the workspace, or "".
func (c *Config) ErrorLogPath(workspace string) string {
	return ResolvePath(workspace, c.Log.ErrorLog)
}

// ResolvePath makes p absolute relative to the workspace. "~/" expands to the
// home directory and an empty path stays empty.
func ResolvePath(workspace, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workspace, p)
}

// Validate checks values that decoding alone cannot reject.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Journal) == "" {
		errs = append(errs, errors.New("journal must not be empty"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}
