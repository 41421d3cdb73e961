package cli

import (
	"errors"
	"os"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/format"
	"github.com/aidanlsb/insight/internal/index"
	"github.com/aidanlsb/insight/internal/journal"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Workspace errors
	ErrWorkspaceNotFound = "WORKSPACE_NOT_FOUND"
	ErrConfigInvalid     = "CONFIG_INVALID"

	// Vocabulary errors
	ErrCatalogInvalid = "CATALOG_INVALID"

	// Journal errors
	ErrJournalNotFound = "JOURNAL_NOT_FOUND"
	ErrJournalInvalid  = "JOURNAL_INVALID"
	ErrEntryNotFound   = "ENTRY_NOT_FOUND"
	ErrEntryExists     = "ENTRY_EXISTS"
	ErrNoEntries       = "NO_ENTRIES"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Index errors
	ErrDatabaseError = "DATABASE_ERROR"
	ErrNotIndexed    = "NOT_INDEXED"
	ErrIndexLocked   = "INDEX_LOCKED"

	// Validation errors
	ErrValidationFailed = "VALIDATION_FAILED"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes.
const (
	WarnDuplicateDate   = "DUPLICATE_DATE"
	WarnNonstandardDate = "NONSTANDARD_DATE"
	WarnStaleIndex      = "STALE_INDEX"
	WarnEmptyJournal    = "EMPTY_JOURNAL"
)

// codeFor classifies errors returned by the journal, catalog and index
// packages. fallback is used when nothing more specific applies.
func codeFor(err error, fallback string) string {
	var (
		loadErr       *catalog.LoadError
		validationErr *journal.ValidationError
		duplicateErr  *journal.DuplicateDatesError
	)
	switch {
	case errors.As(err, &duplicateErr):
		return ErrJournalInvalid
	case errors.As(err, &validationErr):
		return ErrValidationFailed
	case errors.As(err, &loadErr):
		return ErrCatalogInvalid
	case errors.Is(err, format.ErrNoEntries):
		return ErrNoEntries
	case errors.Is(err, format.ErrNotJournal):
		return ErrJournalInvalid
	case errors.Is(err, journal.ErrDuplicateDate):
		return ErrEntryExists
	case errors.Is(err, journal.ErrEntryNotFound):
		return ErrEntryNotFound
	case errors.Is(err, index.ErrNotIndexed):
		return ErrNotIndexed
	case errors.Is(err, index.ErrIndexLocked):
		return ErrIndexLocked
	case errors.Is(err, os.ErrNotExist):
		return ErrFileNotFound
	}
	return fallback
}

// validationDetails exposes a ValidationError or the duplicated dates of a
// journal to JSON consumers.
func validationDetails(err error) interface{} {
	var dupErr *journal.DuplicateDatesError
	if errors.As(err, &dupErr) {
		return map[string]interface{}{"dates": dupErr.Dates}
	}
	var vErr *journal.ValidationError
	if !errors.As(err, &vErr) {
		return nil
	}
	return map[string]string{
		"date":      vErr.Date,
		"reference": vErr.Reference,
		"kind":      string(vErr.Kind),
	}
}
