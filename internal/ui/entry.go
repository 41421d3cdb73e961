package ui

import (
	"strings"

	"github.com/aidanlsb/insight/internal/model"
)

// EntryMarkdown formats an entry as a markdown document: the date as a
// heading, the body, then its scriptures and topics as lists.
func EntryMarkdown(e *model.Entry) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(e.Date)
	b.WriteString("\n\n")

	if body := strings.TrimSpace(e.Text); body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}

	if len(e.Scriptures) > 0 {
		b.WriteString("\n## Scriptures\n\n")
		for _, s := range e.Scriptures {
			b.WriteString("- ")
			b.WriteString(s.FullTitle())
			b.WriteString("\n")
		}
	}

	if len(e.Topics) > 0 {
		b.WriteString("\n## Topics\n\n")
		for _, topic := range e.Topics {
			b.WriteString("- ")
			b.WriteString(topic)
			b.WriteString("\n")
		}
	}

	return b.String()
}
