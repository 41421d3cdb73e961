package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvFile is the optional dotenv file read from the workspace.
const EnvFile = ".env"

// Environment variables that override file settings.
const (
	EnvWorkspace     = "INSIGHT_WORKSPACE"
	EnvBooks         = "INSIGHT_BOOKS"
	EnvTopics        = "INSIGHT_TOPICS"
	EnvBookNames     = "INSIGHT_BOOK_NAMES"
	EnvJournal       = "INSIGHT_JOURNAL"
	EnvStrictSources = "INSIGHT_STRICT_SOURCES"
	EnvVerseRule     = "INSIGHT_VERSE_RULE"
	EnvLogLevel      = "INSIGHT_LOG_LEVEL"
	EnvErrorLog      = "INSIGHT_ERROR_LOG"
	EnvAccent        = "INSIGHT_UI_ACCENT"
)

// applyEnv overlays the workspace .env file and then the process environment.
// The .env file never modifies the process environment.
func applyEnv(cfg *Config, workspace string) error {
	dotenv := map[string]string{}
	path := filepath.Join(workspace, EnvFile)
	if _, err := os.Stat(path); err == nil {
		values, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		dotenv = values
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	for key, dest := range map[string]*string{
		EnvBooks:     &cfg.Books,
		EnvTopics:    &cfg.Topics,
		EnvBookNames: &cfg.BookNames,
		EnvJournal:   &cfg.Journal,
		EnvLogLevel:  &cfg.Log.Level,
		EnvErrorLog:  &cfg.Log.ErrorLog,
		EnvAccent:    &cfg.UI.Accent,
	} {
		if v, ok := lookup(key); ok {
			*dest = v
		}
	}

	if v, ok := lookup(EnvStrictSources); ok {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvStrictSources, err)
		}
		cfg.StrictSources = strict
	}

	if v, ok := lookup(EnvVerseRule); ok {
		if err := cfg.VerseRule.Set(v); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvVerseRule, err)
		}
	}

	return nil
}
