package format

import (
	"errors"
	"strings"

	"github.com/aidanlsb/insight/internal/model"
)

// EntrySeparator opens every entry of the flat text form.
const EntrySeparator = "-----"

// ErrNoEntries is returned when saving a journal that has no entries.
var ErrNoEntries = errors.New("no entries to save")

// ParseFlatText reads the flat text form:
//
//	-----
//	<date>
//	<body line>
//	...
//
// Text before the first separator is ignored. The body is every line up to the
// next separator, joined with newlines. A separator on the last line opens no entry.
// References are left empty; run extraction to fill them in.
func ParseFlatText(text string) []*model.Entry {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var entries []*model.Entry
	for i := 0; i < len(lines); i++ {
		if lines[i] != EntrySeparator {
			continue
		}
		if i+1 >= len(lines) {
			break
		}

		date := lines[i+1]
		i += 2

		var body []string
		for i < len(lines) && lines[i] != EntrySeparator {
			body = append(body, lines[i])
			i++
		}
		i-- // let the loop see the next separator

		entries = append(entries, model.NewEntry(date, strings.Join(body, "\n")))
	}

	return entries
}

// BuildFlatText renders entries in the flat text form. Every entry is written as
// the separator line, the date line and the body followed by a newline.
func BuildFlatText(entries []*model.Entry) (string, error) {
	if len(entries) == 0 {
		return "", ErrNoEntries
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(EntrySeparator)
		b.WriteByte('\n')
		b.WriteString(e.Date)
		b.WriteByte('\n')
		b.WriteString(e.Text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
